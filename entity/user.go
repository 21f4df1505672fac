package entity

import "time"

type User struct {
	UserName  string    `json:"userName" gorm:"primaryKey;type:varchar(50)"`
	SessionID string    `json:"-" gorm:"unique;type:varchar(512);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
