package repository

import (
	"context"

	"gorm.io/gorm"

	"disposable-chat-app/entity"
)

type UserRepository struct {
	Repository[entity.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repository UserRepository) ExistsByName(ctx context.Context, db *gorm.DB, userName string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.User{}).
		Where("user_name = ?", userName).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
