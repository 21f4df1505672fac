package req

type MessageRequest struct {
	Sender  string `json:"sender" validate:"required,min=1,max=50"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"` // CHAT | JOIN | LEAVE, defaults to CHAT
}
