package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"disposable-chat-app/config/common"
	"disposable-chat-app/dto/res"
	"disposable-chat-app/usecase"
)

func NewFiber(cfg *common.Config) *fiber.App {
	appName := cfg.GetAppConfig()
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		AppName:       appName,
		ErrorHandler:  errorHandler,
	})
}

func NewValidator() *validator.Validate {
	return validator.New()
}

// errorHandler maps lifecycle errors onto HTTP status codes so handlers can
// return them untranslated.
func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, usecase.ErrInvalidArgument):
		code = fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrAlreadyExists):
		code = fiber.StatusConflict
	case errors.Is(err, usecase.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.As(err, &validationErrs):
		code = fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	return ctx.Status(code).JSON(res.ErrorResponse{
		Status:     utils.StatusMessage(code),
		StatusCode: code,
		Error:      err.Error(),
	})
}
