package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"commute/internal/cloudwriter"
	"commute/internal/handlers"
	"commute/internal/logging"
	"commute/internal/models"
	"commute/internal/parser"
	"commute/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the tables and serve the dashboard (default)",
	RunE:  runServe,
}

// loadTables reads the config and loads both tables. Any error here is fatal for
// the caller: there is no partial or fallback data.
func loadTables(ctx context.Context) (*models.Config, *cloudwriter.S3ClientProvider, *models.Tables, error) {
	cfg, err := models.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, nil, nil, err
	}

	s3Provider := cloudwriter.NewS3ClientProvider(cfg.AWSRegion)
	manager := parser.NewDefaultManager(cfg, s3Provider)
	tables, err := parser.LoadTables(ctx, manager, cfg.StackedURL, cfg.WideURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load data: %w", err)
	}
	return cfg, s3Provider, tables, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, _, tables, err := loadTables(ctx)
	if err != nil {
		logging.Errorf("%v", err)
		return err
	}
	if err := tables.Validate(); err != nil {
		logging.Errorf("Data does not match the offered commute methods: %v", err)
		return err
	}

	logging.Infof("Tables from %s and %s loaded at %s", tables.StackedURL, tables.WideURL, tables.LoadedAt.Format(time.RFC3339))

	store := storage.NewTableStore(tables)
	dashboardHandler := handlers.NewDashboardHandler(store)

	mux := http.NewServeMux()
	dashboardHandler.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.WithRequestLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Dashboard listening on http://%s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
