package model

const (
	EventAuctionSettled = "auction_settled"
	EventTipIssued      = "tip_issued"
	EventClaimProcessed = "claim_processed"
)

// SettlementEvent is published after a ledger mutation committed, for
// collaborators such as the notification service.
type SettlementEvent struct {
	Type      string `json:"type"`
	ContentID string `json:"content_id,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	Amount    int64  `json:"amount"`
	Data      any    `json:"data,omitempty"`
	CreatedAt string `json:"created_at"`
}
