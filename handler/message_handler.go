package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"disposable-chat-app/dto/res"
	"disposable-chat-app/usecase"
)

type MessageHandler struct {
	usecase.MessageUsecase
	WSHandler *WebSocketHandler
	*logrus.Logger
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, wsHandler *WebSocketHandler, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{MessageUsecase: messageUsecase, WSHandler: wsHandler, Logger: logger}
}

func (handler *MessageHandler) GetMessages(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")

	messages, err := handler.MessageUsecase.MessagesForGroup(ctx.Context(), groupName)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to get messages for group %s: %v", groupName, err)
		return err
	}

	response := res.CommonResponse[[]res.MessageResponse]{
		Message:    "Successfully retrieved messages",
		StatusCode: fiber.StatusOK,
		Data:       messages,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *MessageHandler) DeleteMessage(ctx *fiber.Ctx) error {
	messageId, err := ctx.ParamsInt("messageId")
	if err != nil || messageId < 0 {
		return fiber.ErrBadRequest
	}
	groupName := ctx.Query("groupName")
	userName := ctx.Query("username")

	deleteMsg, deleted, err := handler.MessageUsecase.DeleteMessage(ctx.Context(), uint(messageId), groupName, userName)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to delete message %d: %v", messageId, err)
		return err
	}

	if deleted {
		handler.WSHandler.Publish(deleteMsg)
		handler.Logger.Infof("DELETE NOTIFICATION SENT: message %d broadcasted to group %s", messageId, groupName)
	}

	return ctx.Status(fiber.StatusOK).JSON(res.DeletedResponse{Deleted: deleted})
}
