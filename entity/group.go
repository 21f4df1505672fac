package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatGroup struct {
	GroupName string    `json:"groupName" gorm:"primaryKey;type:varchar(50)"`
	CreatedBy string    `json:"createdBy" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`

	Members []GroupMember `json:"members" gorm:"foreignKey:GroupName;references:GroupName;constraint:OnDelete:CASCADE;"`
}

// IsExpired reports whether the group's lifetime has passed at the given instant.
func (group *ChatGroup) IsExpired(now time.Time) bool {
	return !group.ExpiresAt.After(now)
}

func (group *ChatGroup) HasMember(userName string) bool {
	for _, member := range group.Members {
		if member.UserName == userName {
			return true
		}
	}
	return false
}

func (group *ChatGroup) MemberNames() []string {
	names := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		names = append(names, member.UserName)
	}
	return names
}

type GroupMember struct {
	ID        string `json:"-" gorm:"primaryKey;type:varchar(255)"`
	GroupName string `json:"-" gorm:"type:varchar(50);not null;index"`
	UserName  string `json:"userName" gorm:"type:varchar(50);not null"`
}

func (member *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	return nil
}
