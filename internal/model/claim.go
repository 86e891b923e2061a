package model

type ClaimRequest struct {
	Source string `json:"source"`
	Role   string `json:"role"`
	Proof  string `json:"proof"`
}

type ClaimResponse struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

type GetClaimableRequest struct {
	Source string `json:"source"`
	Role   string `json:"role"`
}

type GetClaimableResponse struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}
