package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/imports"
)

// Los subcomandos de operación no tienen sentido contra el store en memoria.
var errNoDatabase = errors.New("database.dsn vacío: el comando necesita postgres")

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(true)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.db == nil {
				return errNoDatabase
			}
			v, err := postgres.Migrate(e.db)
			if err != nil {
				return err
			}
			e.log.Info("migrations applied", map[string]any{"version": v})
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <entidad> <archivo.csv>",
		Short: "Importa un CSV (perritos, comercios)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(true)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.db == nil {
				return errNoDatabase
			}
			a, err := e.app(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			tbl, err := imports.Parse(f)
			if err != nil {
				return err
			}

			res, err := a.Imports.ImportTable(cmd.Context(), args[0], tbl, dryRun)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d filas con errores", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "valida sin guardar")
	return cmd
}

func remindCmd() *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Evalúa solicitudes demoradas y opcionalmente avisa al equipo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(true)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.db == nil {
				return errNoDatabase
			}
			a, err := e.app(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			rep, err := a.Reminders.Run(cmd.Context(), send)
			if err != nil {
				return err
			}
			return printJSON(cmd, rep)
		},
	}
	cmd.Flags().BoolVar(&send, "enviar", false, "envía el resumen por el notificador configurado")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
