package model

type GetLotteryPoolsRequest struct {
	ContentID string `json:"content_id"`
}

type GetLotteryPoolsResponse struct {
	Current LotteryPool   `json:"current"`
	History []LotteryPool `json:"history"`
}

type AssignLotteryWinnerRequest struct {
	PoolID        string `json:"pool_id"`
	WinnerAddress string `json:"winner_address"`
}

type AssignLotteryWinnerResponse struct {
	Pool LotteryPool `json:"pool"`
}
