package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
	"disposable-chat-app/entity"
	"disposable-chat-app/repository"
)

const timeLayout = "2006-01-02 15:04:05"

type GroupUsecaseImpl struct {
	*repository.GroupRepository
	*repository.MessageRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger
	Clock Clock

	locks *keyedMutex
}

func NewGroupUsecase(groupRepository *repository.GroupRepository, messageRepository *repository.MessageRepository, validate *validator.Validate, DB *gorm.DB, logger *logrus.Logger, clock Clock) GroupUsecase {
	return &GroupUsecaseImpl{
		GroupRepository:   groupRepository,
		MessageRepository: messageRepository,
		Validate:          validate,
		DB:                DB,
		Logger:            logger,
		Clock:             clock,
		locks:             newKeyedMutex(),
	}
}

func (uc *GroupUsecaseImpl) CreateGroup(ctx context.Context, request *req.CreateGroupRequest) (*res.GroupResponse, error) {
	// validate request
	if request.GroupName == "" || request.CreatedBy == "" || request.ExpiryMinutes <= 0 {
		uc.Logger.Infof("Invalid group creation parameters: %s, %s, %d", request.GroupName, request.CreatedBy, request.ExpiryMinutes)
		return nil, fmt.Errorf("%w: group name, creator and validity period are required", ErrInvalidArgument)
	}
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	unlock := uc.locks.Lock(request.GroupName)
	defer unlock()

	exists, err := uc.GroupRepository.ExistsByName(ctx, uc.DB, request.GroupName)
	if err != nil {
		return nil, err
	}
	if exists {
		uc.Logger.Infof("Group already exists: %s", request.GroupName)
		return nil, fmt.Errorf("group with name %s: %w", request.GroupName, ErrAlreadyExists)
	}

	group := &entity.ChatGroup{
		GroupName: request.GroupName,
		CreatedBy: request.CreatedBy,
		ExpiresAt: uc.Clock().Add(time.Duration(request.ExpiryMinutes) * time.Minute),
	}
	members := []entity.GroupMember{{UserName: request.CreatedBy}}

	if err := uc.GroupRepository.CreateWithMembers(ctx, uc.DB, group, members); err != nil {
		uc.Logger.WithError(err).Errorf("failed to save group: %v", err)
		return nil, err
	}
	group.Members = members

	uc.Logger.Infof("Group created: %s by %s, expires at: %s", group.GroupName, group.CreatedBy, group.ExpiresAt.Format(timeLayout))

	return toGroupResponse(group), nil
}

func (uc *GroupUsecaseImpl) GetGroup(ctx context.Context, groupName string) (*res.GroupResponse, error) {
	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}
	return toGroupResponse(group), nil
}

// JoinGroup adds the user to the group's member set. Joining a group the user
// is already in, or one that has expired, is a silent no-op returning the
// group unchanged.
func (uc *GroupUsecaseImpl) JoinGroup(ctx context.Context, groupName, userName string) (*res.GroupResponse, error) {
	unlock := uc.locks.Lock(groupName)
	defer unlock()

	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}

	if !group.HasMember(userName) && !group.IsExpired(uc.Clock()) && userName != "" {
		if err := uc.GroupRepository.AddMember(ctx, uc.DB, groupName, userName); err != nil {
			uc.Logger.WithError(err).Errorf("failed to add member %s to group %s", userName, groupName)
			return nil, err
		}
		group.Members = append(group.Members, entity.GroupMember{GroupName: groupName, UserName: userName})
		uc.Logger.Infof("JOIN: User %s joined group: %s", userName, groupName)
	}

	return toGroupResponse(group), nil
}

func (uc *GroupUsecaseImpl) LeaveGroup(ctx context.Context, groupName, userName string) (bool, error) {
	unlock := uc.locks.Lock(groupName)
	defer unlock()

	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return false, err
	}
	if group == nil || !group.HasMember(userName) {
		return false, nil
	}

	if err := uc.GroupRepository.RemoveMember(ctx, uc.DB, groupName, userName); err != nil {
		uc.Logger.WithError(err).Errorf("failed to remove member %s from group %s", userName, groupName)
		return false, err
	}

	uc.Logger.Infof("LEFT: User %s left group %s", userName, groupName)
	return true, nil
}

// RemoveMember is an administrative action restricted to the group's creator.
func (uc *GroupUsecaseImpl) RemoveMember(ctx context.Context, groupName, requester, targetUser string) (bool, error) {
	unlock := uc.locks.Lock(groupName)
	defer unlock()

	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return false, err
	}
	if group == nil {
		return false, fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}
	if group.CreatedBy != requester {
		uc.Logger.Infof("REMOVE DENIED: %s is not the admin of group %s", requester, groupName)
		return false, fmt.Errorf("only the group admin can remove members: %w", ErrForbidden)
	}
	if !group.HasMember(targetUser) {
		return false, nil
	}

	if err := uc.GroupRepository.RemoveMember(ctx, uc.DB, groupName, targetUser); err != nil {
		return false, err
	}

	uc.Logger.Infof("REMOVED: %s removed from %s by %s", targetUser, groupName, requester)
	return true, nil
}

// UpdateGroupSettings renames and/or reschedules a group. A rename replaces
// the group record under the new key, carries over creator and members, moves
// every stored message to the new name and drops the old record, all in a
// single transaction.
func (uc *GroupUsecaseImpl) UpdateGroupSettings(ctx context.Context, groupName string, request *req.GroupSettingsRequest) (bool, error) {
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request: %v", err)
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if request.NewGroupName == nil && request.NewExpiryMinutes == nil {
		uc.Logger.Infof("no new name or expiry given for group %s", groupName)
		return false, nil
	}
	if request.NewGroupName != nil && *request.NewGroupName == "" {
		return false, fmt.Errorf("%w: new group name must not be empty", ErrInvalidArgument)
	}
	if request.NewExpiryMinutes != nil && *request.NewExpiryMinutes <= 0 {
		return false, fmt.Errorf("%w: new expiry must be positive", ErrInvalidArgument)
	}

	// a rename also locks the target name so a concurrent create of that name
	// cannot slip between the exists check and the insert
	var unlock func()
	if request.NewGroupName != nil && *request.NewGroupName != groupName {
		unlock = uc.locks.LockPair(groupName, *request.NewGroupName)
	} else {
		unlock = uc.locks.Lock(groupName)
	}
	defer unlock()

	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return false, err
	}
	if group == nil {
		return false, fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}
	if group.CreatedBy != request.Requester {
		return false, fmt.Errorf("only the group admin can change settings: %w", ErrForbidden)
	}

	if request.NewGroupName != nil && *request.NewGroupName != groupName {
		return uc.renameGroup(ctx, group, *request.NewGroupName, request.NewExpiryMinutes)
	}

	if request.NewExpiryMinutes != nil {
		expiresAt := uc.Clock().Add(time.Duration(*request.NewExpiryMinutes) * time.Minute)
		if err := uc.GroupRepository.UpdateExpiry(ctx, uc.DB, groupName, expiresAt); err != nil {
			return false, err
		}
		uc.Logger.Infof("Updated expiry time for group %s", groupName)
		return true, nil
	}

	return false, nil
}

func (uc *GroupUsecaseImpl) renameGroup(ctx context.Context, group *entity.ChatGroup, newName string, newExpiryMinutes *int) (bool, error) {
	// start transaction
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	taken, err := uc.GroupRepository.ExistsByName(ctx, trx, newName)
	if err != nil {
		return false, err
	}
	if taken {
		uc.Logger.Errorf("Group with name %s already exists", newName)
		return false, fmt.Errorf("group with name %s: %w", newName, ErrAlreadyExists)
	}

	expiresAt := group.ExpiresAt
	if newExpiryMinutes != nil {
		expiresAt = uc.Clock().Add(time.Duration(*newExpiryMinutes) * time.Minute)
	}

	newGroup := entity.ChatGroup{
		GroupName: newName,
		CreatedBy: group.CreatedBy,
		ExpiresAt: expiresAt,
	}
	if err := trx.Omit("Members").Create(&newGroup).Error; err != nil {
		return false, err
	}

	members := make([]entity.GroupMember, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, entity.GroupMember{GroupName: newName, UserName: member.UserName})
	}
	if len(members) > 0 {
		if err := trx.Create(&members).Error; err != nil {
			return false, err
		}
	}

	// move message history to the new name
	if err := uc.MessageRepository.ReassignGroup(ctx, trx, group.GroupName, newName); err != nil {
		return false, err
	}

	// drop the old record and its member rows
	if err := trx.Where("group_name = ?", group.GroupName).Delete(&entity.GroupMember{}).Error; err != nil {
		return false, err
	}
	if err := trx.Where("group_name = ?", group.GroupName).Delete(&entity.ChatGroup{}).Error; err != nil {
		return false, err
	}

	if err := trx.Commit().Error; err != nil {
		uc.Logger.WithError(err).Errorf("failed to commit rename of group %s", group.GroupName)
		return false, err
	}

	uc.Logger.Infof("Group successfully renamed from %s to %s", group.GroupName, newName)
	return true, nil
}

// DeleteGroup removes a group by key. The creator may delete at any time;
// anyone may delete a group that has already expired.
func (uc *GroupUsecaseImpl) DeleteGroup(ctx context.Context, groupName, requester string) error {
	unlock := uc.locks.Lock(groupName)
	defer unlock()

	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}
	if group.CreatedBy != requester && !group.IsExpired(uc.Clock()) {
		return fmt.Errorf("only the group admin can delete the group: %w", ErrForbidden)
	}

	if err := uc.GroupRepository.DeleteWithMembers(ctx, uc.DB, groupName); err != nil {
		return err
	}

	uc.Logger.Infof("Group deleted: %s", groupName)
	return nil
}

func (uc *GroupUsecaseImpl) GroupsForUser(ctx context.Context, userName string) ([]res.GroupResponse, error) {
	if userName == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}

	groups, err := uc.GroupRepository.FindAllByMember(ctx, uc.DB, userName, uc.Clock())
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to list groups for %s", userName)
		return nil, err
	}

	responses := make([]res.GroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, *toGroupResponse(&groups[i]))
	}
	return responses, nil
}

func (uc *GroupUsecaseImpl) GroupExpiry(ctx context.Context, groupName string) (*res.ExpiryResponse, error) {
	group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %s: %w", groupName, ErrNotFound)
	}

	remaining := group.ExpiresAt.Sub(uc.Clock())
	if remaining <= 0 {
		return &res.ExpiryResponse{MinutesLeft: 0, IsExpired: true}, nil
	}
	return &res.ExpiryResponse{MinutesLeft: int(remaining / time.Minute), IsExpired: false}, nil
}

func (uc *GroupUsecaseImpl) GroupNameExists(ctx context.Context, groupName string) (bool, error) {
	return uc.GroupRepository.ExistsByName(ctx, uc.DB, groupName)
}

// DeleteExpiredGroups removes every group whose expiry has passed. Each group
// is deleted under its mutation lock, so a join racing the deletion cannot
// leave a member row behind for a group that no longer exists.
func (uc *GroupUsecaseImpl) DeleteExpiredGroups(ctx context.Context) ([]string, error) {
	expired, err := uc.GroupRepository.FindExpired(ctx, uc.DB, uc.Clock())
	if err != nil {
		return nil, err
	}

	deleted := make([]string, 0, len(expired))
	for _, groupName := range expired {
		unlock := uc.locks.Lock(groupName)

		// re-check under the lock, an admin delete or rename may have won
		group, err := uc.GroupRepository.FindByName(ctx, uc.DB, groupName)
		if err != nil {
			unlock()
			return deleted, err
		}
		if group == nil || !group.IsExpired(uc.Clock()) {
			unlock()
			continue
		}

		if err := uc.GroupRepository.DeleteWithMembers(ctx, uc.DB, groupName); err != nil {
			unlock()
			return deleted, err
		}
		unlock()

		uc.Logger.Infof("Expired group deleted: %s", groupName)
		deleted = append(deleted, groupName)
	}
	return deleted, nil
}

func toGroupResponse(group *entity.ChatGroup) *res.GroupResponse {
	return &res.GroupResponse{
		GroupName: group.GroupName,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt.Format(timeLayout),
		ExpiresAt: group.ExpiresAt.Format(timeLayout),
		Members:   group.MemberNames(),
	}
}
