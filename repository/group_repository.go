package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"disposable-chat-app/entity"
)

type GroupRepository struct {
	Repository[entity.ChatGroup]
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{}
}

// FindByName loads a group with its member rows. Returns (nil, nil) when no
// group with that name exists.
func (repository GroupRepository) FindByName(ctx context.Context, db *gorm.DB, groupName string) (*entity.ChatGroup, error) {
	var group entity.ChatGroup
	err := db.WithContext(ctx).
		Preload("Members").
		Where("group_name = ?", groupName).
		First(&group).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (repository GroupRepository) ExistsByName(ctx context.Context, db *gorm.DB, groupName string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.ChatGroup{}).
		Where("group_name = ?", groupName).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CreateWithMembers persists a group together with its initial member rows.
func (repository GroupRepository) CreateWithMembers(ctx context.Context, db *gorm.DB, group *entity.ChatGroup, members []entity.GroupMember) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(group).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].GroupName = group.GroupName
		}
		return tx.Create(&members).Error
	})
}

// FindAllByMember returns the groups the user belongs to whose expiry is still
// in the future at the given instant.
func (repository GroupRepository) FindAllByMember(ctx context.Context, db *gorm.DB, userName string, now time.Time) ([]entity.ChatGroup, error) {
	var groups []entity.ChatGroup

	err := db.WithContext(ctx).
		Model(&entity.ChatGroup{}).
		Joins("JOIN t_group_member gm ON gm.group_name = t_chat_group.group_name").
		Where("gm.user_name = ? AND t_chat_group.expires_at > ?", userName, now).
		Preload("Members").
		Find(&groups).Error

	if err != nil {
		return nil, err
	}

	return groups, nil
}

func (repository GroupRepository) AddMember(ctx context.Context, db *gorm.DB, groupName, userName string) error {
	member := entity.GroupMember{GroupName: groupName, UserName: userName}
	return db.WithContext(ctx).Create(&member).Error
}

func (repository GroupRepository) RemoveMember(ctx context.Context, db *gorm.DB, groupName, userName string) error {
	return db.WithContext(ctx).
		Where("group_name = ? AND user_name = ?", groupName, userName).
		Delete(&entity.GroupMember{}).Error
}

func (repository GroupRepository) UpdateExpiry(ctx context.Context, db *gorm.DB, groupName string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Model(&entity.ChatGroup{}).
		Where("group_name = ?", groupName).
		Update("expires_at", expiresAt).Error
}

// DeleteWithMembers removes a group and its member rows in one transaction so
// partially deleted groups never survive a failed sweep or admin delete.
func (repository GroupRepository) DeleteWithMembers(ctx context.Context, db *gorm.DB, groupName string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_name = ?", groupName).Delete(&entity.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Where("group_name = ?", groupName).Delete(&entity.ChatGroup{}).Error
	})
}

// FindExpired lists the names of every group whose expiry has already passed.
func (repository GroupRepository) FindExpired(ctx context.Context, db *gorm.DB, now time.Time) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Model(&entity.ChatGroup{}).
		Where("expires_at <= ?", now).
		Pluck("group_name", &names).Error
	return names, err
}
