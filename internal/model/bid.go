package model

type PlaceBidRequest struct {
	ContentID     string `json:"content_id"`
	Amount        int64  `json:"amount"`
	ReferralToken string `json:"referral_token"`
	Proof         string `json:"proof"`
}

type PlaceBidResponse struct {
	Bid Bid `json:"bid"`
}

type GetBidsRequest struct {
	ContentID string `json:"content_id"`

	// Seq selects the opened round, zero means the latest one.
	Seq int `json:"seq"`
}

type GetBidsResponse struct {
	Auction AuctionHistory `json:"auction"`
	Bids    []Bid          `json:"bids"`
}
