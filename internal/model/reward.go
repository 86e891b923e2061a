package model

type TipRequest struct {
	ContentID     string `json:"content_id"`
	Amount        int64  `json:"amount"`
	ReferralToken string `json:"referral_token"`
	Proof         string `json:"proof"`
}

type TipResponse struct {
	Reward Reward `json:"reward"`
}

type GetReferralTokenRequest struct {
	ContentID string `json:"content_id"`
}

type GetReferralTokenResponse struct {
	Token string `json:"token"`
}
