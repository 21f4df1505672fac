package res

type LoginResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}
