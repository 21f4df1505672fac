package scheduler_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"disposable-chat-app/config/logger"
	"disposable-chat-app/entity"
	"disposable-chat-app/repository"
	"disposable-chat-app/scheduler"
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

func nopAppLogger() *logger.AppLogger {
	nop := zerolog.Nop()
	common := logger.CommonLogger{Info: nop, Error: nop, Trace: nop, Warning: nop}
	return &logger.AppLogger{Http: common, WS: common, Sweep: common}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// atomicClock is a clock that is safe to advance while other goroutines read it.
type atomicClock struct {
	nanos atomic.Int64
}

func newAtomicClock(start time.Time) *atomicClock {
	clock := &atomicClock{}
	clock.nanos.Store(start.UnixNano())
	return clock
}

func (c *atomicClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

func (c *atomicClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

func newGroupUsecase(t *testing.T, db *gorm.DB, clock *atomicClock) usecase.GroupUsecase {
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

func seedGroup(t *testing.T, db *gorm.DB, groupName, createdBy string, expiresAt time.Time) {
	t.Helper()
	group := entity.ChatGroup{GroupName: groupName, CreatedBy: createdBy, ExpiresAt: expiresAt}
	require.NoError(t, db.Omit("Members").Create(&group).Error)
	require.NoError(t, db.Create(&entity.GroupMember{GroupName: groupName, UserName: createdBy}).Error)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("deletes expired groups exactly once", func(t *testing.T) {
		db := newTestDB(t)
		clock := newAtomicClock(base)
		sweeper := scheduler.NewExpirySweeper(newGroupUsecase(t, db, clock), nopAppLogger(), time.Minute)

		seedGroup(t, db, "dead", "alice", base.Add(-time.Minute))
		seedGroup(t, db, "live", "bob", base.Add(time.Hour))

		require.NoError(t, sweeper.Sweep(ctx))

		var groups []entity.ChatGroup
		require.NoError(t, db.Find(&groups).Error)
		require.Len(t, groups, 1)
		assert.Equal(t, "live", groups[0].GroupName)

		var members int64
		require.NoError(t, db.Model(&entity.GroupMember{}).Where("group_name = ?", "dead").Count(&members).Error)
		assert.Zero(t, members)

		// a second pass over the same state removes nothing further
		require.NoError(t, sweeper.Sweep(ctx))
		require.NoError(t, db.Find(&groups).Error)
		assert.Len(t, groups, 1)
	})

	t.Run("advancing the clock past expiry triggers deletion", func(t *testing.T) {
		db := newTestDB(t)
		clock := newAtomicClock(base)
		sweeper := scheduler.NewExpirySweeper(newGroupUsecase(t, db, clock), nopAppLogger(), time.Minute)

		seedGroup(t, db, "g", "alice", base.Add(30*time.Minute))

		require.NoError(t, sweeper.Sweep(ctx))
		var count int64
		require.NoError(t, db.Model(&entity.ChatGroup{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		clock.Advance(31 * time.Minute)

		require.NoError(t, sweeper.Sweep(ctx))
		require.NoError(t, db.Model(&entity.ChatGroup{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("joins racing the sweep leave no orphan member rows", func(t *testing.T) {
		db := newTestDB(t)
		clock := newAtomicClock(base)
		groups := newGroupUsecase(t, db, clock)
		sweeper := scheduler.NewExpirySweeper(groups, nopAppLogger(), time.Minute)

		seedGroup(t, db, "g", "alice", base.Add(time.Minute))

		const joiners = 8
		var wg sync.WaitGroup
		errs := make([]error, joiners)
		for i := 0; i < joiners; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = groups.JoinGroup(ctx, "g", fmt.Sprintf("user-%02d", i))
			}(i)
		}

		clock.Advance(2 * time.Minute)
		require.NoError(t, sweeper.Sweep(ctx))
		wg.Wait()
		require.NoError(t, sweeper.Sweep(ctx))

		// joins either ran before the delete or saw the group gone
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, usecase.ErrNotFound)
			}
		}

		var groupCount int64
		require.NoError(t, db.Model(&entity.ChatGroup{}).Count(&groupCount).Error)
		assert.Zero(t, groupCount)

		var memberRows int64
		require.NoError(t, db.Model(&entity.GroupMember{}).Where("group_name = ?", "g").Count(&memberRows).Error)
		assert.Zero(t, memberRows)
	})
}
