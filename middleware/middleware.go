package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"disposable-chat-app/config/common"
)

type Middleware struct {
	*common.Config
	Log *logrus.Logger
}

func NewMiddleware(config *common.Config, logger *logrus.Logger) *Middleware {
	return &Middleware{Config: config, Log: logger}
}

func (middleware *Middleware) RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	middleware.Log.WithFields(logrus.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start).String(),
	}).Info("request handled")

	return err
}
