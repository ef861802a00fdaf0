package testutil

import (
	"context"
	"testing"

	"github.com/vrsandeep/animelist/internal/api"
	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/core"
)

// TestConfig returns a configuration that never leaves the process: the demo
// catalog and the mock model.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog.Offline = true
	cfg.Catalog.PageLimit = 12
	cfg.Recommend.HistoryLimit = 10
	cfg.Model.CandidateCount = 4
	return cfg
}

// SetupTestApp assembles a core.App over an in-memory database.
func SetupTestApp(t *testing.T, cfg *config.Config) *core.App {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	app, err := core.Assemble(context.Background(), cfg, SetupTestDB(t))
	if err != nil {
		t.Fatalf("Failed to assemble app: %v", err)
	}
	app.Version = "test"
	t.Cleanup(app.Close)
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t, nil)
	return api.NewServer(app), app
}
