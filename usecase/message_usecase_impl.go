package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"disposable-chat-app/dto"
	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
	"disposable-chat-app/entity"
	"disposable-chat-app/enum"
	"disposable-chat-app/repository"
)

type messageUsecase struct {
	messageRepository *repository.MessageRepository
	validate          *validator.Validate
	db                *gorm.DB
	logger            *logrus.Logger
	clock             Clock
}

func NewMessageUsecase(messageRepository *repository.MessageRepository, validate *validator.Validate, db *gorm.DB, logger *logrus.Logger, clock Clock) MessageUsecase {
	return &messageUsecase{
		messageRepository: messageRepository,
		validate:          validate,
		db:                db,
		logger:            logger,
		clock:             clock,
	}
}

// ProcessIncomingMessage assigns a timestamp, persists the message and returns
// the broadcast payload echoing the store-assigned id.
func (uc *messageUsecase) ProcessIncomingMessage(ctx context.Context, groupName string, payload *req.MessageRequest) (dto.BroadcastMessage, error) {
	if groupName == "" {
		return dto.BroadcastMessage{}, fmt.Errorf("%w: group name is required", ErrInvalidArgument)
	}
	if err := uc.validate.Struct(payload); err != nil {
		uc.logger.WithError(err).Errorf("failed to validate message payload: %v", err)
		return dto.BroadcastMessage{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	messageType, err := parseMessageType(payload.Type)
	if err != nil {
		return dto.BroadcastMessage{}, err
	}

	message := entity.ChatMessage{
		GroupName: groupName,
		Sender:    payload.Sender,
		Content:   payload.Content,
		Timestamp: uc.clock(),
		Type:      messageType,
	}

	if err := uc.messageRepository.Save(ctx, uc.db, &message); err != nil {
		uc.logger.WithError(err).Errorf("failed to save message for group %s", groupName)
		return dto.BroadcastMessage{}, err
	}

	uc.logger.Infof("Message saved: group=%s id=%d sender=%s", groupName, message.ID, message.Sender)

	return dto.BroadcastMessage{
		ID:        message.ID,
		GroupName: groupName,
		Sender:    message.Sender,
		Content:   message.Content,
		Type:      string(message.Type),
		Timestamp: message.Timestamp.Format(timeLayout),
	}, nil
}

func (uc *messageUsecase) MessagesForGroup(ctx context.Context, groupName string) ([]res.MessageResponse, error) {
	messages, err := uc.messageRepository.FindByGroupOrderByTimestamp(ctx, uc.db, groupName)
	if err != nil {
		uc.logger.WithError(err).Errorf("failed to load messages for group %s", groupName)
		return nil, err
	}

	responses := make([]res.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, res.MessageResponse{
			ID:        message.ID,
			Sender:    message.Sender,
			Content:   message.Content,
			Type:      string(message.Type),
			Timestamp: message.Timestamp.Format(timeLayout),
		})
	}
	return responses, nil
}

// DeleteMessage removes a message only when the requester is its original
// sender. Any other requester is a silent no-op: the message stays and no
// DELETE notification is produced.
func (uc *messageUsecase) DeleteMessage(ctx context.Context, messageId uint, groupName, userName string) (dto.BroadcastMessage, bool, error) {
	var message entity.ChatMessage
	if err := uc.messageRepository.FindById(ctx, uc.db, &message, messageId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BroadcastMessage{}, false, fmt.Errorf("message %d: %w", messageId, ErrNotFound)
		}
		return dto.BroadcastMessage{}, false, err
	}

	if message.Sender != userName {
		uc.logger.Infof("DELETE DENIED: User %s tried to delete message %d sent by %s", userName, messageId, message.Sender)
		return dto.BroadcastMessage{}, false, nil
	}

	if err := uc.messageRepository.DeleteById(ctx, uc.db, messageId); err != nil {
		return dto.BroadcastMessage{}, false, err
	}

	uc.logger.Infof("DELETE: User %s deleted message %d from group %s", userName, messageId, groupName)

	return dto.BroadcastMessage{
		ID:        messageId,
		GroupName: groupName,
		Sender:    userName,
		Content:   "Message deleted",
		Type:      string(enum.MessageTypeDelete),
		Timestamp: uc.clock().Format(timeLayout),
	}, true, nil
}

func parseMessageType(value string) (enum.MessageType, error) {
	switch enum.MessageType(value) {
	case "":
		return enum.MessageTypeChat, nil
	case enum.MessageTypeChat, enum.MessageTypeJoin, enum.MessageTypeLeave:
		return enum.MessageType(value), nil
	default:
		return "", fmt.Errorf("%w: unknown message type %q", ErrInvalidArgument, value)
	}
}
