package usecase_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"disposable-chat-app/entity"
	"disposable-chat-app/repository"
	"disposable-chat-app/usecase"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testClock starts at a fixed instant and can be advanced to simulate expiry.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newGroupUsecase(t *testing.T, db *gorm.DB, clock *testClock) usecase.GroupUsecase {
	t.Helper()
	return usecase.NewGroupUsecase(
		repository.NewGroupRepository(),
		repository.NewMessageRepository(),
		validator.New(),
		db,
		quietLogger(),
		clock.Now,
	)
}

func newMessageUsecase(t *testing.T, db *gorm.DB, clock *testClock) usecase.MessageUsecase {
	t.Helper()
	return usecase.NewMessageUsecase(
		repository.NewMessageRepository(),
		validator.New(),
		db,
		quietLogger(),
		clock.Now,
	)
}
