package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/core"
	"github.com/vrsandeep/animelist/internal/jobs"
	"github.com/vrsandeep/animelist/internal/testutil"
)

func setupTestApp(t *testing.T) *core.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Catalog.Offline = true
	app, err := core.Assemble(context.Background(), cfg, testutil.SetupTestDB(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestRunSessionCleanup(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	user, err := app.Store().CreateUser(ctx, "cleanup@example.com", "hash", "Cleanup")
	require.NoError(t, err)
	live, err := app.Store().CreateSession(ctx, user.ID)
	require.NoError(t, err)
	stale, err := app.Store().CreateSession(ctx, user.ID)
	require.NoError(t, err)

	_, err = app.DB().Exec("UPDATE sessions SET expiry = ? WHERE token = ?", time.Now().UTC().Add(-time.Hour), stale)
	require.NoError(t, err)

	require.NoError(t, jobs.RunSessionCleanup(app))

	var count int
	require.NoError(t, app.DB().QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := app.Store().GetUserFromSession(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestSessionCleanupRegisteredWithManager(t *testing.T) {
	app := setupTestApp(t)

	require.NoError(t, app.JobManager().RunJob(jobs.SessionCleanupJob, app))
	status := waitForStatus(t, app.JobManager(), jobs.SessionCleanupJob)
	assert.Equal(t, "success", status.Status)
}

func TestStartJobs_DisabledInterval(t *testing.T) {
	app := setupTestApp(t)

	s := jobs.StartJobs(app)
	defer s.Stop()
	assert.Empty(t, s.Jobs())
}

func TestStartJobs_SchedulesCleanup(t *testing.T) {
	app := setupTestApp(t)
	app.Config().Sessions.CleanupInterval = 30

	s := jobs.StartJobs(app)
	defer s.Stop()
	assert.Len(t, s.Jobs(), 1)
}
