package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/pto-planner/api"
)

// newServeCmd runs the HTTP API until SIGINT/SIGTERM, then drains active
// requests for up to 30s before closing the database.
func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the rollover watch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(a)
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP server port")
	a.loader.Viper().BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(a *app) error {
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	watch := api.NewRolloverWatch(a.planner, a.cfg.Scheduler.Spec, loc)
	watch.Enabled = a.cfg.Scheduler.Enabled
	if err := watch.Start(); err != nil {
		return err
	}
	defer watch.Stop()

	handler := api.NewHandler(a.planner, watch)
	handler.Version = appVersion
	router := api.NewRouter(handler, a.cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost:%d (database %s)", a.cfg.Server.Port, a.cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
