package model

type GetMyAccountRequest struct{}

type GetMyAccountResponse struct {
	Account Account `json:"account"`
}
