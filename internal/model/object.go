package model

type AccessToken struct {
	Address string `json:"address"`
}

type ReferralToken struct {
	Address   string `json:"address"`
	ShareCode string `json:"share_code"`
}

type Account struct {
	ID                      string `json:"id"`
	Address                 string `json:"address"`
	AuctionEarnings         int64  `json:"auction_earnings"`
	TipEarnings             int64  `json:"tip_earnings"`
	ReferredAuctionEarnings int64  `json:"referred_auction_earnings"`
	ReferredTipEarnings     int64  `json:"referred_tip_earnings"`
	LotteryEarnings         int64  `json:"lottery_earnings"`
	PlatformEarnings        int64  `json:"platform_earnings"`
	CreatedAt               string `json:"created_at"`
}

type Content struct {
	ID               string `json:"id"`
	CreatorID        string `json:"creator_id"`
	OwnerID          string `json:"owner_id"`
	Title            string `json:"title"`
	AuctionState     string `json:"auction_state"`
	AuctionRound     int    `json:"auction_round"`
	AuctionSeq       int    `json:"auction_seq"`
	LotteryRound     int    `json:"lottery_round"`
	StartPrice       int64  `json:"start_price"`
	DueTime          string `json:"due_time,omitempty"`
	CurrentAuctionID string `json:"current_auction_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type AuctionHistory struct {
	ID          string `json:"id"`
	ContentID   string `json:"content_id"`
	Seq         int    `json:"seq"`
	Round       int    `json:"round"`
	SellerID    string `json:"seller_id"`
	State       string `json:"state"`
	StartPrice  int64  `json:"start_price"`
	DueTime     string `json:"due_time,omitempty"`
	HighestBid  int64  `json:"highest_bid"`
	BidCount    int    `json:"bid_count"`
	FinalPrice  int64  `json:"final_price"`
	WinnerID    string `json:"winner_id,omitempty"`
	WinnerBidID string `json:"winner_bid_id,omitempty"`
	RewardID    string `json:"reward_id,omitempty"`
	SettledAt   string `json:"settled_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type Bid struct {
	// Snowflake ids exceed the integer precision of javascript clients.
	ID               string `json:"id"`
	ContentID        string `json:"content_id"`
	Round            int    `json:"round"`
	AuctionHistoryID string `json:"auction_history_id"`
	BidderID         string `json:"bidder_id"`
	ReferrerID       string `json:"referrer_id,omitempty"`
	Amount           int64  `json:"amount"`
	IsWinner         bool   `json:"is_winner"`
	CreatedAt        string `json:"created_at"`
}

type Split struct {
	Recipient int64 `json:"recipient"`
	Referrer  int64 `json:"referrer"`
	Lottery   int64 `json:"lottery"`
	Platform  int64 `json:"platform"`
}

type Reward struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	ContentID        string `json:"content_id"`
	Round            int    `json:"round"`
	SenderID         string `json:"sender_id"`
	RecipientID      string `json:"recipient_id"`
	ReferrerID       string `json:"referrer_id,omitempty"`
	BidID            string `json:"bid_id,omitempty"`
	LotteryPoolID    string `json:"lottery_pool_id"`
	GrossAmount      int64  `json:"gross_amount"`
	Split            Split  `json:"split"`
	RecipientClaimed bool   `json:"recipient_claimed"`
	ReferrerClaimed  bool   `json:"referrer_claimed"`
	PlatformClaimed  bool   `json:"platform_claimed"`
	LotteryClaimed   bool   `json:"lottery_claimed"`
	CreatedAt        string `json:"created_at"`
}

type LotteryPool struct {
	ID        string `json:"id,omitempty"`
	ContentID string `json:"content_id"`
	Round     int    `json:"round"`
	Amount    int64  `json:"amount"`
	WinnerID  string `json:"winner_id,omitempty"`
	IsClaimed bool   `json:"is_claimed"`
}

type AuctionSettlement struct {
	ContentID      string  `json:"content_id"`
	AuctionID      string  `json:"auction_id"`
	Seq            int     `json:"seq"`
	Round          int     `json:"round"`
	State          string  `json:"state"`
	AlreadySettled bool    `json:"already_settled"`
	BidCount       int     `json:"bid_count"`
	FinalPrice     int64   `json:"final_price"`
	WinnerID       string  `json:"winner_id,omitempty"`
	WinnerBidID    string  `json:"winner_bid_id,omitempty"`
	Reward         *Reward `json:"reward,omitempty"`
}
