package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-co-op/gocron"

	"github.com/vrsandeep/animelist/internal/catalog"
	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/db"
	"github.com/vrsandeep/animelist/internal/jobs"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/recommend"
	"github.com/vrsandeep/animelist/internal/store"
	"github.com/vrsandeep/animelist/internal/watchlist"
	"github.com/vrsandeep/animelist/internal/websocket"
)

// App holds the core components of the application shared by the HTTP
// server and the background jobs.
type App struct {
	config      *config.Config
	db          *sql.DB
	store       *store.Store
	catalog     catalog.Client
	model       recommend.Model
	synthesizer *recommend.Synthesizer
	watchlist   *watchlist.Service
	wsHub       *websocket.Hub
	stopHub     context.CancelFunc
	jobManager  *jobs.JobManager
	scheduler   *gocron.Scheduler
	Version     string
}

// New loads the configuration, opens and migrates the database and wires
// every component.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := Assemble(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	logging.Info().
		Bool("demo_model", app.model.Demo()).
		Bool("offline_catalog", cfg.Catalog.Offline).
		Msg("Core application setup complete.")
	return app, nil
}

// Assemble wires the components around an already migrated database. The
// catalog and model variants are chosen here, once, from cfg.
func Assemble(ctx context.Context, cfg *config.Config, database *sql.DB) (*App, error) {
	model, err := recommend.New(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation model: %w", err)
	}

	hub := websocket.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	st := store.New(database)
	cat := catalog.New(cfg.Catalog)
	app := &App{
		config:      cfg,
		db:          database,
		store:       st,
		catalog:     cat,
		model:       model,
		synthesizer: recommend.NewSynthesizer(model, cat, cfg.Recommend.HistoryLimit, cfg.Model.CandidateCount),
		watchlist:   watchlist.NewService(st, hub),
		wsHub:       hub,
		stopHub:     stopHub,
		Version:     "dev",
	}
	app.jobManager = jobs.NewManager(app)
	jobs.RegisterDefaults(app.jobManager)
	return app, nil
}

// StartJobs starts the background scheduler. Close stops it.
func (a *App) StartJobs() {
	a.scheduler = jobs.StartJobs(a)
}

func (a *App) Config() *config.Config              { return a.config }
func (a *App) DB() *sql.DB                         { return a.db }
func (a *App) Store() *store.Store                 { return a.store }
func (a *App) Catalog() catalog.Client             { return a.catalog }
func (a *App) Model() recommend.Model              { return a.model }
func (a *App) Synthesizer() *recommend.Synthesizer { return a.synthesizer }
func (a *App) Watchlist() *watchlist.Service       { return a.watchlist }
func (a *App) WsHub() *websocket.Hub               { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager        { return a.jobManager }

// Close gracefully closes the application's resources.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.stopHub != nil {
		a.stopHub()
	}
	if a.db != nil {
		a.db.Close()
	}
}
