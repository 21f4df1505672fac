package dto

type BroadcastMessage struct {
	ID        uint   `json:"id"`
	GroupName string `json:"groupName"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}
