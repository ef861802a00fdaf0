package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vrsandeep/animelist/internal/api"
	"github.com/vrsandeep/animelist/internal/core"
	"github.com/vrsandeep/animelist/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the core application components
	app, err := core.New(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Fatal error during application setup")
	}
	defer app.Close()

	app.StartJobs()

	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Config().Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine so it doesn't block.
	go func() {
		logging.Info().Str("addr", httpServer.Addr).Msg("Starting web server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Could not start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down server...")

	// Allow existing connections to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
	}

	logging.Info().Msg("Server exiting.")
}
