package usecase

import (
	"context"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
)

type GroupUsecase interface {
	CreateGroup(ctx context.Context, request *req.CreateGroupRequest) (*res.GroupResponse, error)
	GetGroup(ctx context.Context, groupName string) (*res.GroupResponse, error)
	JoinGroup(ctx context.Context, groupName, userName string) (*res.GroupResponse, error)
	LeaveGroup(ctx context.Context, groupName, userName string) (bool, error)
	RemoveMember(ctx context.Context, groupName, requester, targetUser string) (bool, error)
	UpdateGroupSettings(ctx context.Context, groupName string, request *req.GroupSettingsRequest) (bool, error)
	DeleteGroup(ctx context.Context, groupName, requester string) error
	GroupsForUser(ctx context.Context, userName string) ([]res.GroupResponse, error)
	GroupExpiry(ctx context.Context, groupName string) (*res.ExpiryResponse, error)
	GroupNameExists(ctx context.Context, groupName string) (bool, error)
	DeleteExpiredGroups(ctx context.Context) ([]string, error)
}
