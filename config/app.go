package config

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"disposable-chat-app/config/common"
	applogger "disposable-chat-app/config/logger"
	"disposable-chat-app/handler"
	"disposable-chat-app/middleware"
	"disposable-chat-app/repository"
	"disposable-chat-app/routes"
	"disposable-chat-app/scheduler"
	"disposable-chat-app/security"
	"disposable-chat-app/usecase"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	*DBConfig
	*security.Session
	*middleware.Middleware
	*common.Config
}

func RunServer() {
	newConfig := common.NewViper()
	appLogger := applogger.NewLogger()
	log := logrus.New()
	app := NewFiber(newConfig)
	newDB := NewDB(newConfig, appLogger)
	newValidator := NewValidator()
	newSession := security.NewSession(newConfig.GetJwtConfig())
	newMiddleware := middleware.NewMiddleware(newConfig, log)

	// middleware CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	App(&AppConfig{
		App:        app,
		Validate:   newValidator,
		Logger:     log,
		DBConfig:   newDB,
		Session:    newSession,
		Middleware: newMiddleware,
		Config:     newConfig,
	})

	if err := app.Listen(newConfig.GetServerConfig()); err != nil {
		log.WithError(err).Errorf("Failed to start server: %v", err)
	}
}

func App(aC *AppConfig) {
	newGroupRepository := repository.NewGroupRepository()
	newMessageRepository := repository.NewMessageRepository()
	newUserRepository := repository.NewUserRepository()

	newGroupUsecase := usecase.NewGroupUsecase(newGroupRepository, newMessageRepository, aC.Validate, aC.GetDB(), aC.Logger, usecase.SystemClock)
	newMessageUsecase := usecase.NewMessageUsecase(newMessageRepository, aC.Validate, aC.GetDB(), aC.Logger, usecase.SystemClock)
	newUserUsecase := usecase.NewUserUsecase(newUserRepository, aC.Validate, aC.GetDB(), aC.Logger, aC.Session)

	wsHandler := handler.NewWebSocketHandler(aC.Logger, newGroupUsecase, newMessageUsecase)

	newUserHandler := handler.NewUserHandler(newUserUsecase, aC.Logger)
	newGroupHandler := handler.NewGroupHandler(newGroupUsecase, aC.Logger)
	newMessageHandler := handler.NewMessageHandler(newMessageUsecase, wsHandler, aC.Logger)

	sweeper := scheduler.NewExpirySweeper(newGroupUsecase, aC.AppLogger, aC.Config.GetSweepInterval())
	go sweeper.Run(context.Background())

	route := routes.ConfigRoute{
		App:            aC.App,
		Middleware:     aC.Middleware,
		UserHandler:    newUserHandler,
		GroupHandler:   newGroupHandler,
		MessageHandler: newMessageHandler,
	}
	route.GetRoute()
	route.GetWebSocketRoute(wsHandler)
}
