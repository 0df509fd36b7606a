package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/router"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP y la web pública",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.db != nil && e.cfg.Database.MigrateOnStart {
		v, err := postgres.Migrate(e.db)
		if err != nil {
			return err
		}
		e.log.Info("migrations applied", map[string]any{"version": v})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	h, err := router.NewRouter(router.Options{
		Config:   e.cfg,
		DB:       e.db,
		Logger:   e.log,
		Registry: reg,
		Context:  ctx,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + e.cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  e.cfg.Server.ReadTimeout,
		WriteTimeout: e.cfg.Server.WriteTimeout,
		IdleTimeout:  e.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		storage := "memory"
		if e.db != nil {
			storage = "postgres"
		}
		e.log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": storage})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
