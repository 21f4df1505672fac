package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disposable-chat-app/dto/req"
	"disposable-chat-app/enum"
	"disposable-chat-app/usecase"
)

func TestProcessIncomingMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an id and defaults to CHAT", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		msg, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Sender: "alice", Content: "hello"})
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
		assert.Equal(t, "g", msg.GroupName)
		assert.Equal(t, "alice", msg.Sender)
		assert.Equal(t, string(enum.MessageTypeChat), msg.Type)
	})

	t.Run("rejects missing sender", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		_, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Content: "hello"})
		assert.ErrorIs(t, err, usecase.ErrInvalidArgument)
	})

	t.Run("rejects unknown message type", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		_, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Sender: "alice", Type: "SHOUT"})
		assert.ErrorIs(t, err, usecase.ErrInvalidArgument)
	})
}

func TestMessagesForGroup(t *testing.T) {
	ctx := context.Background()

	clock := newTestClock()
	uc := newMessageUsecase(t, newTestDB(t), clock)

	for _, content := range []string{"one", "two", "three"} {
		_, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Sender: "alice", Content: content})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	_, err := uc.ProcessIncomingMessage(ctx, "other", &req.MessageRequest{Sender: "bob", Content: "noise"})
	require.NoError(t, err)

	history, err := uc.MessagesForGroup(ctx, "g")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Content)
	assert.Equal(t, "two", history[1].Content)
	assert.Equal(t, "three", history[2].Content)
}

func TestDeleteMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("sender deletes and a DELETE notification is produced", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		msg, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Sender: "alice", Content: "oops"})
		require.NoError(t, err)

		deleteMsg, deleted, err := uc.DeleteMessage(ctx, msg.ID, "g", "alice")
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, msg.ID, deleteMsg.ID)
		assert.Equal(t, string(enum.MessageTypeDelete), deleteMsg.Type)

		history, err := uc.MessagesForGroup(ctx, "g")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("other requesters are a silent no-op", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		msg, err := uc.ProcessIncomingMessage(ctx, "g", &req.MessageRequest{Sender: "alice", Content: "keep"})
		require.NoError(t, err)

		_, deleted, err := uc.DeleteMessage(ctx, msg.ID, "g", "mallory")
		require.NoError(t, err)
		assert.False(t, deleted)

		history, err := uc.MessagesForGroup(ctx, "g")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "keep", history[0].Content)
	})

	t.Run("unknown message", func(t *testing.T) {
		uc := newMessageUsecase(t, newTestDB(t), newTestClock())

		_, _, err := uc.DeleteMessage(ctx, 404, "g", "alice")
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}
