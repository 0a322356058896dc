package rooms

type negotiateResponse struct {
	URL string `json:"url"`
}
