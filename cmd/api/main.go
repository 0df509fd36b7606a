// @title Adopciones municipales API
// @version 1.0
// @description Back office de adopción de perritos, comercios amigos y agenda municipal.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/app"
	"pet-adoption/internal/config"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adopciones",
		Short:         "Back office de adopciones municipales",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "ruta a config.yaml (por defecto ./config.yaml)")

	root.AddCommand(serveCmd(), migrateCmd(), importCmd(), remindCmd())
	return root
}

// env es lo que comparten todos los subcomandos.
type env struct {
	cfg *config.Config
	log logger.Logger
	db  *sql.DB
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	if s, ok := e.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

func setup(withDB bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg: cfg,
		log: logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.Logging.Level),
			Format: logger.ParseFormat(cfg.Logging.Format),
			App:    cfg.Logging.App,
		}),
	}
	if !withDB || cfg.Database.DSN == "" {
		return e, nil
	}

	db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	e.db = db
	return e, nil
}

func (e *env) app(reg prometheus.Registerer) (*app.App, error) {
	return app.New(app.Deps{
		Config:  e.cfg,
		DB:      e.db,
		Logger:  e.log,
		Metrics: metrics.New(reg),
	})
}
