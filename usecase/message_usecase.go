package usecase

import (
	"context"

	"disposable-chat-app/dto"
	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
)

type MessageUsecase interface {
	ProcessIncomingMessage(ctx context.Context, groupName string, payload *req.MessageRequest) (dto.BroadcastMessage, error)
	MessagesForGroup(ctx context.Context, groupName string) ([]res.MessageResponse, error)
	DeleteMessage(ctx context.Context, messageId uint, groupName, userName string) (dto.BroadcastMessage, bool, error)
}
