package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
	"disposable-chat-app/usecase"
)

const defaultExpiryMinutes = 60

type GroupHandler struct {
	usecase.GroupUsecase
	*logrus.Logger
}

func NewGroupHandler(groupUsecase usecase.GroupUsecase, logger *logrus.Logger) *GroupHandler {
	return &GroupHandler{GroupUsecase: groupUsecase, Logger: logger}
}

func (handler *GroupHandler) CreateGroup(ctx *fiber.Ctx) error {
	// parse request
	payload := new(req.CreateGroupRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	if payload.ExpiryMinutes == 0 {
		payload.ExpiryMinutes = defaultExpiryMinutes
	}

	groupResponse, err := handler.GroupUsecase.CreateGroup(ctx.Context(), payload)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to create group: %v", err)
		return err
	}

	response := res.CommonResponse[*res.GroupResponse]{
		Message:    "Successfully created group",
		StatusCode: fiber.StatusOK,
		Data:       groupResponse,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *GroupHandler) GetGroup(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")

	groupResponse, err := handler.GroupUsecase.GetGroup(ctx.Context(), groupName)
	if err != nil {
		return err
	}

	response := res.CommonResponse[*res.GroupResponse]{
		Message:    "Successfully retrieved group",
		StatusCode: fiber.StatusOK,
		Data:       groupResponse,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *GroupHandler) JoinGroup(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")
	userName := membershipUsername(ctx)

	groupResponse, err := handler.GroupUsecase.JoinGroup(ctx.Context(), groupName, userName)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to join group %s: %v", groupName, err)
		return err
	}

	response := res.CommonResponse[*res.GroupResponse]{
		Message:    "Successfully joined group",
		StatusCode: fiber.StatusOK,
		Data:       groupResponse,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *GroupHandler) LeaveGroup(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")
	userName := membershipUsername(ctx)

	left, err := handler.GroupUsecase.LeaveGroup(ctx.Context(), groupName, userName)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to leave group %s: %v", groupName, err)
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.LeaveResponse{Left: left})
}

func (handler *GroupHandler) UpdateGroupSettings(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")

	payload := new(req.GroupSettingsRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}

	updated, err := handler.GroupUsecase.UpdateGroupSettings(ctx.Context(), groupName, payload)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to update settings of group %s: %v", groupName, err)
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.UpdatedResponse{Updated: updated})
}

func (handler *GroupHandler) RemoveMember(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")
	targetUser := ctx.Params("targetUser")
	requester := ctx.Query("requester")

	removed, err := handler.GroupUsecase.RemoveMember(ctx.Context(), groupName, requester, targetUser)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to remove member from group %s: %v", groupName, err)
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.RemovedResponse{Removed: removed})
}

func (handler *GroupHandler) DeleteGroup(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")
	requester := ctx.Query("username")

	if err := handler.GroupUsecase.DeleteGroup(ctx.Context(), groupName, requester); err != nil {
		handler.Logger.WithError(err).Errorf("Failed to delete group %s: %v", groupName, err)
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.DeletedResponse{Deleted: true})
}

func (handler *GroupHandler) GetGroupsForUser(ctx *fiber.Ctx) error {
	userName := ctx.Query("username")

	groupResponses, err := handler.GroupUsecase.GroupsForUser(ctx.Context(), userName)
	if err != nil {
		return err
	}

	response := res.CommonResponse[[]res.GroupResponse]{
		Message:    "Successfully retrieved groups",
		StatusCode: fiber.StatusOK,
		Data:       groupResponses,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *GroupHandler) GetGroupExpiry(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")

	expiryResponse, err := handler.GroupUsecase.GroupExpiry(ctx.Context(), groupName)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(expiryResponse)
}

func (handler *GroupHandler) GroupNameExists(ctx *fiber.Ctx) error {
	groupName := ctx.Params("groupName")

	exists, err := handler.GroupUsecase.GroupNameExists(ctx.Context(), groupName)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.ExistsResponse{Exists: exists})
}

// membershipUsername reads the acting user from the body, falling back to the
// username query parameter.
func membershipUsername(ctx *fiber.Ctx) string {
	payload := new(req.MembershipRequest)
	if err := ctx.BodyParser(payload); err == nil && payload.Username != "" {
		return payload.Username
	}
	return ctx.Query("username")
}
