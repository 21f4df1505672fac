package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/dto/res"
	"disposable-chat-app/entity"
	"disposable-chat-app/repository"
	"disposable-chat-app/security"
)

type UserUsecaseImpl struct {
	*repository.UserRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger
	*security.Session
}

func NewUserUsecase(userRepository *repository.UserRepository, validate *validator.Validate, DB *gorm.DB, logger *logrus.Logger, session *security.Session) UserUsecase {
	return &UserUsecaseImpl{UserRepository: userRepository, Validate: validate, DB: DB, Logger: logger, Session: session}
}

// Login idempotently creates the user on first sight. The session token is
// generated once and never rotated.
func (uc *UserUsecaseImpl) Login(ctx context.Context, request *req.LoginRequest) (res.LoginResponse, error) {
	// validate request
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request: %v", err)
		return res.LoginResponse{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	exists, err := uc.UserRepository.ExistsByName(ctx, uc.DB, request.Username)
	if err != nil {
		return res.LoginResponse{}, err
	}

	if !exists {
		token, err := uc.Session.GenerateToken(request.Username)
		if err != nil {
			uc.Logger.WithError(err).Errorf("failed to generate session token: %v", err)
			return res.LoginResponse{}, err
		}

		newUser := &entity.User{
			UserName:  request.Username,
			SessionID: token,
		}
		if err := uc.UserRepository.Save(ctx, uc.DB, newUser); err != nil {
			uc.Logger.WithError(err).Errorf("failed to save user: %v", err)
			return res.LoginResponse{}, err
		}
	}

	uc.Logger.Infof("LOGIN: User: %s", request.Username)

	return res.LoginResponse{
		Status:   "ok",
		Username: request.Username,
	}, nil
}
