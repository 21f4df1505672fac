package repository

import (
	"context"

	"gorm.io/gorm"

	"disposable-chat-app/entity"
)

type MessageRepository struct {
	Repository[entity.ChatMessage]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// FindByGroupOrderByTimestamp returns a group's history in insertion order.
// The id tiebreak keeps messages stored within the same instant stable.
func (repository MessageRepository) FindByGroupOrderByTimestamp(ctx context.Context, db *gorm.DB, groupName string) ([]entity.ChatMessage, error) {
	var messages []entity.ChatMessage
	err := db.WithContext(ctx).
		Where("group_name = ?", groupName).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// ReassignGroup rewrites the group reference of every message under oldName.
// Callers run it inside the rename transaction.
func (repository MessageRepository) ReassignGroup(ctx context.Context, db *gorm.DB, oldName, newName string) error {
	return db.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Where("group_name = ?", oldName).
		Update("group_name", newName).Error
}

func (repository MessageRepository) DeleteById(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(&entity.ChatMessage{}, id).Error
}
