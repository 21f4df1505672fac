package usecase

import (
	"context"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
)

type UserUsecase interface {
	Login(ctx context.Context, request *req.LoginRequest) (res.LoginResponse, error)
}
