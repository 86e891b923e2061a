package model

type StartAuctionRequest struct {
	ContentID  string `json:"content_id"`
	StartPrice int64  `json:"start_price"`

	// Duration is in seconds, zero means the owner closes the round manually.
	Duration int64 `json:"duration"`
}

type StartAuctionResponse struct {
	Auction AuctionHistory `json:"auction"`
}

type SettleAuctionRequest struct {
	ContentID string `json:"content_id"`
}

type SettleAuctionResponse struct {
	Settlement AuctionSettlement `json:"settlement"`
}

type GetAuctionHistoryRequest struct {
	ContentID string `json:"content_id"`
}

type GetAuctionHistoryResponse struct {
	Auctions []AuctionHistory `json:"auctions"`
}
