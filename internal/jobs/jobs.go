package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vrsandeep/animelist/internal/logging"
)

const SessionCleanupJob = "session-cleanup"

// RegisterDefaults registers every built-in job with the manager.
func RegisterDefaults(jm *JobManager) {
	jm.Register(SessionCleanupJob, RunSessionCleanup)
}

// StartJobs starts the background job scheduler. The returned scheduler
// should be stopped on shutdown.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startSessionCleanupJob(s, app)

	logging.Info().Msg("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startSessionCleanupJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Sessions.CleanupInterval
	if interval <= 0 {
		logging.Info().Msg("Session cleanup interval is 0, scheduled cleanup is disabled.")
		return
	}

	logging.Info().Str("job", SessionCleanupJob).Int("minutes", interval).Msg("Scheduling job")
	_, err := s.Every(interval).Minutes().Do(func() {
		// Submit through the manager so a manual run and a scheduled run never overlap.
		if err := app.JobManager().RunJob(SessionCleanupJob, app); err != nil {
			logging.Warn().Err(err).Str("job", SessionCleanupJob).Msg("Scheduled job could not start")
		}
	})
	if err != nil {
		logging.Error().Err(err).Str("job", SessionCleanupJob).Msg("Error scheduling job")
	}
}

// RunSessionCleanup deletes every session whose expiry has passed.
func RunSessionCleanup(app JobContext) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := app.Store().DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}
	logging.Info().Int64("removed", removed).Msg("Expired sessions removed")
	return nil
}
