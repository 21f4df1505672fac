package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"disposable-chat-app/handler"
	"disposable-chat-app/middleware"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.UserHandler
	*handler.GroupHandler
	*handler.MessageHandler
}

func (rc *ConfigRoute) GetRoute() {
	app := rc.App.Group("/api/v1")
	app.Use(rc.Middleware.RequestLogger)

	app.Post("/login", rc.UserHandler.Login)

	app.Post("/groups", rc.GroupHandler.CreateGroup)
	app.Get("/groups", rc.GroupHandler.GetGroupsForUser)
	app.Get("/groups/:groupName", rc.GroupHandler.GetGroup)
	app.Get("/groups/:groupName/expiry", rc.GroupHandler.GetGroupExpiry)
	app.Get("/groups/:groupName/exists", rc.GroupHandler.GroupNameExists)
	app.Post("/groups/:groupName/join", rc.GroupHandler.JoinGroup)
	app.Post("/groups/:groupName/leave", rc.GroupHandler.LeaveGroup)
	app.Put("/groups/:groupName/settings", rc.GroupHandler.UpdateGroupSettings)
	app.Delete("/groups/:groupName/members/:targetUser", rc.GroupHandler.RemoveMember)
	app.Delete("/groups/:groupName", rc.GroupHandler.DeleteGroup)

	app.Get("/messages/:groupName", rc.MessageHandler.GetMessages)
	app.Delete("/messages/:messageId", rc.MessageHandler.DeleteMessage)
}

func (rc *ConfigRoute) GetWebSocketRoute(wsHandler *handler.WebSocketHandler) {
	rc.App.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	rc.App.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
