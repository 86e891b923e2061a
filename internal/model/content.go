package model

type CreateContentRequest struct {
	Title string `json:"title"`
}

type CreateContentResponse struct {
	ID string `json:"id"`
}

type GetContentRequest struct {
	ID string `json:"id"`
}

type GetContentResponse struct {
	Content Content `json:"content"`
}
