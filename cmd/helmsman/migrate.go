package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/helmsman/internal/config"
	"github.com/dropDatabas3/helmsman/internal/store/pg"
	migrations "github.com/dropDatabas3/helmsman/migrations/postgres"
)

func migrateCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar las migraciones del esquema principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.Storage.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer pool.Close()

			if err := pg.Migrate(ctx, pool, migrations.CoreFS, migrations.CoreDir); err != nil {
				return err
			}
			fmt.Println("migrations ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "config.yaml", "ruta del archivo de configuración")
	return cmd
}
