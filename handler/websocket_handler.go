package handler

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"disposable-chat-app/dto"
	"disposable-chat-app/dto/req"
	"disposable-chat-app/usecase"
)

type WebSocketHandler struct {
	*logrus.Logger
	sync.Mutex
	usecase.GroupUsecase
	usecase.MessageUsecase
	Clients   map[string]map[*websocket.Conn]bool // groupName -> subscribers
	Broadcast chan dto.BroadcastMessage
}

func NewWebSocketHandler(logger *logrus.Logger, groupUsecase usecase.GroupUsecase, messageUsecase usecase.MessageUsecase) *WebSocketHandler {
	handler := &WebSocketHandler{
		Logger:         logger,
		GroupUsecase:   groupUsecase,
		MessageUsecase: messageUsecase,
		Clients:        make(map[string]map[*websocket.Conn]bool),
		Broadcast:      make(chan dto.BroadcastMessage),
	}
	go handler.runBroadcast()
	return handler
}

func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	ctx := context.Background()

	groupName := c.Query("groupName")
	userName := c.Query("username")

	if groupName == "" {
		handler.Logger.Warn("Invalid connection request: missing groupName")
		c.Close()
		return
	}

	if _, err := handler.GroupUsecase.GetGroup(ctx, groupName); err != nil {
		handler.Logger.Errorf("Failed to find group %s: %v", groupName, err)
		c.Close()
		return
	}

	handler.registerClient(groupName, c)
	defer func() {
		handler.removeClient(groupName, c)
		c.Close()
	}()

	for {
		var payload req.MessageRequest
		if err := c.ReadJSON(&payload); err != nil {
			handler.Logger.Warnf("Read error: %v", err)
			break
		}

		if payload.Sender == "" {
			payload.Sender = userName
		}

		// persist first; broadcast is best-effort and never reported back
		broadcastMsg, err := handler.MessageUsecase.ProcessIncomingMessage(ctx, groupName, &payload)
		if err != nil {
			handler.Logger.Errorf("Failed to process message: %v", err)
			continue
		}

		handler.Broadcast <- broadcastMsg
	}
}

// Publish fans a message out to the current subscribers of its group topic.
func (handler *WebSocketHandler) Publish(msg dto.BroadcastMessage) {
	handler.Broadcast <- msg
}

func (handler *WebSocketHandler) registerClient(groupName string, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if handler.Clients[groupName] == nil {
		handler.Clients[groupName] = make(map[*websocket.Conn]bool)
	}
	handler.Clients[groupName][conn] = true
	handler.Logger.Infof("Client joined group topic: %s (Total: %d)", groupName, len(handler.Clients[groupName]))
}

func (handler *WebSocketHandler) removeClient(groupName string, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if clients, ok := handler.Clients[groupName]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(handler.Clients, groupName)
		}
	}
	handler.Logger.Infof("Client left group topic: %s", groupName)
}

func (handler *WebSocketHandler) runBroadcast() {
	for {
		msg := <-handler.Broadcast
		handler.Mutex.Lock()
		clients := handler.Clients[msg.GroupName]
		for conn := range clients {
			if err := conn.WriteJSON(msg); err != nil {
				handler.Logger.Warnf("Error broadcasting message: %v", err)
				conn.Close()
				delete(clients, conn)
			}
		}
		handler.Mutex.Unlock()
	}
}
