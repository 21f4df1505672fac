package entity

import (
	"time"

	"disposable-chat-app/enum"
)

type ChatMessage struct {
	ID        uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	GroupName string           `json:"groupName" gorm:"type:varchar(50);not null;index"`
	Sender    string           `json:"sender" gorm:"type:varchar(50);not null"`
	Content   string           `json:"content" gorm:"type:TEXT"`
	Timestamp time.Time        `json:"timestamp" gorm:"not null;index"`
	Type      enum.MessageType `json:"type" gorm:"type:varchar(10);default:'CHAT'"`
}
