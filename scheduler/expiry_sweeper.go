package scheduler

import (
	"context"
	"time"

	"disposable-chat-app/config/logger"
	"disposable-chat-app/usecase"
)

// ExpirySweeper is the background pass that enforces group expiration: every
// interval it deletes all groups whose expiry has passed. Deletion goes
// through the group usecase so it holds the same per-group mutation lock as
// join and leave. Sweeping is idempotent, a group is deleted at most once.
type ExpirySweeper struct {
	groups   usecase.GroupUsecase
	log      *logger.AppLogger
	interval time.Duration
}

func NewExpirySweeper(groups usecase.GroupUsecase, log *logger.AppLogger, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		groups:   groups,
		log:      log,
		interval: interval,
	}
}

// Run drives Sweep on a fixed cadence until the context is cancelled.
func (sweeper *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	sweeper.log.Sweep.Info.Info().
		Str("interval", sweeper.interval.String()).
		Msg("expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			sweeper.log.Sweep.Info.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			if err := sweeper.Sweep(ctx); err != nil {
				sweeper.log.Sweep.Error.Error().Err(err).Msg("expiry sweep failed")
			}
		}
	}
}

// Sweep deletes every group whose expiry has passed at the current tick.
func (sweeper *ExpirySweeper) Sweep(ctx context.Context) error {
	deleted, err := sweeper.groups.DeleteExpiredGroups(ctx)
	if err != nil {
		return err
	}

	for _, groupName := range deleted {
		sweeper.log.Sweep.Info.Info().
			Str("group", groupName).
			Msg("SWEEP: expired group deleted")
	}
	if len(deleted) > 0 {
		sweeper.log.Sweep.Info.Info().
			Int("count", len(deleted)).
			Msg("expiry sweep finished")
	}
	return nil
}
