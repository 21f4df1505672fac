package routes_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"disposable-chat-app/config"
	"disposable-chat-app/config/common"
	"disposable-chat-app/entity"
	"disposable-chat-app/handler"
	"disposable-chat-app/middleware"
	"disposable-chat-app/repository"
	"disposable-chat-app/routes"
	"disposable-chat-app/security"
	"disposable-chat-app/usecase"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "t_",
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.ChatGroup{}, &entity.GroupMember{}, &entity.ChatMessage{}, &entity.User{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &common.Config{Viper: viper.New()}
	app := config.NewFiber(cfg)

	groupRepository := repository.NewGroupRepository()
	messageRepository := repository.NewMessageRepository()
	userRepository := repository.NewUserRepository()

	groupUsecase := usecase.NewGroupUsecase(groupRepository, messageRepository, config.NewValidator(), db, log, usecase.SystemClock)
	messageUsecase := usecase.NewMessageUsecase(messageRepository, config.NewValidator(), db, log, usecase.SystemClock)
	userUsecase := usecase.NewUserUsecase(userRepository, config.NewValidator(), db, log, security.NewSession([]byte("test-secret")))

	wsHandler := handler.NewWebSocketHandler(log, groupUsecase, messageUsecase)

	route := routes.ConfigRoute{
		App:            app,
		Middleware:     middleware.NewMiddleware(cfg, log),
		UserHandler:    handler.NewUserHandler(userUsecase, log),
		GroupHandler:   handler.NewGroupHandler(groupUsecase, log),
		MessageHandler: handler.NewMessageHandler(messageUsecase, wsHandler, log),
	}
	route.GetRoute()
	route.GetWebSocketRoute(wsHandler)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(encoded))
	}
	request := httptest.NewRequest(method, target, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response, out any) {
	t.Helper()
	defer response.Body.Close()
	require.NoError(t, json.NewDecoder(response.Body).Decode(out))
}

func TestGroupRoutes(t *testing.T) {
	app := newTestApp(t)

	createBody := map[string]any{"groupName": "g", "createdBy": "alice", "expiryMinutes": 30}

	response := doJSON(t, app, fiber.MethodPost, "/api/v1/groups", createBody)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)

	var created struct {
		Data struct {
			GroupName string   `json:"groupName"`
			CreatedBy string   `json:"createdBy"`
			Members   []string `json:"members"`
		} `json:"data"`
	}
	decodeBody(t, response, &created)
	assert.Equal(t, "g", created.Data.GroupName)
	assert.Equal(t, []string{"alice"}, created.Data.Members)

	// duplicate name conflicts regardless of creator
	response = doJSON(t, app, fiber.MethodPost, "/api/v1/groups", map[string]any{"groupName": "g", "createdBy": "bob", "expiryMinutes": 5})
	assert.Equal(t, fiber.StatusConflict, response.StatusCode)

	response = doJSON(t, app, fiber.MethodPost, "/api/v1/groups/g/join", map[string]any{"username": "bob"})
	assert.Equal(t, fiber.StatusOK, response.StatusCode)

	response = doJSON(t, app, fiber.MethodGet, "/api/v1/groups/g", nil)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)
	decodeBody(t, response, &created)
	assert.ElementsMatch(t, []string{"alice", "bob"}, created.Data.Members)

	response = doJSON(t, app, fiber.MethodGet, "/api/v1/groups/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, response.StatusCode)

	response = doJSON(t, app, fiber.MethodGet, "/api/v1/groups/g/exists", nil)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)
	var exists struct {
		Exists bool `json:"exists"`
	}
	decodeBody(t, response, &exists)
	assert.True(t, exists.Exists)

	// only the creator may delete an unexpired group
	response = doJSON(t, app, fiber.MethodDelete, "/api/v1/groups/g?username=bob", nil)
	assert.Equal(t, fiber.StatusForbidden, response.StatusCode)

	response = doJSON(t, app, fiber.MethodDelete, "/api/v1/groups/g?username=alice", nil)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	decodeBody(t, response, &deleted)
	assert.True(t, deleted.Deleted)
}

func TestLoginRoute(t *testing.T) {
	app := newTestApp(t)

	response := doJSON(t, app, fiber.MethodPost, "/api/v1/login?username=alice", nil)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)

	var login struct {
		Status   string `json:"status"`
		Username string `json:"username"`
	}
	decodeBody(t, response, &login)
	assert.Equal(t, "ok", login.Status)
	assert.Equal(t, "alice", login.Username)

	// empty username rejected
	response = doJSON(t, app, fiber.MethodPost, "/api/v1/login", nil)
	assert.Equal(t, fiber.StatusBadRequest, response.StatusCode)
}

func TestMessageRoutes(t *testing.T) {
	app := newTestApp(t)

	response := doJSON(t, app, fiber.MethodPost, "/api/v1/groups", map[string]any{"groupName": "g", "createdBy": "alice", "expiryMinutes": 30})
	require.Equal(t, fiber.StatusOK, response.StatusCode)

	response = doJSON(t, app, fiber.MethodGet, "/api/v1/messages/g", nil)
	assert.Equal(t, fiber.StatusOK, response.StatusCode)
	var history struct {
		Data []struct {
			Content string `json:"content"`
		} `json:"data"`
	}
	decodeBody(t, response, &history)
	assert.Empty(t, history.Data)

	response = doJSON(t, app, fiber.MethodDelete, "/api/v1/messages/12345?groupName=g&username=alice", nil)
	assert.Equal(t, fiber.StatusNotFound, response.StatusCode)
}
