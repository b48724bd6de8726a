package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/helmsman/internal/config"
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/security/password"
)

// seedCmd siembra un plan, un yate y usuarios iniciales directo contra
// Postgres. Pensado para entornos locales y de demo, no para prod.
func seedCmd() *cobra.Command {
	var (
		cfgPath    string
		yachtName  string
		planID     string
		adminEmail string
		adminPass  string
		ownerEmail string
		ownerPass  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Sembrar plan, yate y usuarios iniciales en Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.Storage.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer pool.Close()

			if err := seedAll(ctx, pool, seedParams{
				YachtName:  yachtName,
				PlanID:     planID,
				AdminEmail: adminEmail,
				AdminPass:  adminPass,
				OwnerEmail: ownerEmail,
				OwnerPass:  ownerPass,
			}); err != nil {
				return err
			}
			fmt.Println("seed ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "config.yaml", "ruta del archivo de configuración")
	cmd.Flags().StringVar(&yachtName, "yacht", "Demo Yacht", "nombre del yate inicial")
	cmd.Flags().StringVar(&planID, "plan", "standard", "ID del plan inicial")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@helmsman.local", "email del admin de plataforma")
	cmd.Flags().StringVar(&adminPass, "admin-password", "", "password del admin (requerido)")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "owner@helmsman.local", "email del owner del yate")
	cmd.Flags().StringVar(&ownerPass, "owner-password", "", "password del owner (requerido)")

	return cmd
}

type seedParams struct {
	YachtName  string
	PlanID     string
	AdminEmail string
	AdminPass  string
	OwnerEmail string
	OwnerPass  string
}

func seedAll(ctx context.Context, pool *pgxpool.Pool, p seedParams) error {
	if p.AdminPass == "" || p.OwnerPass == "" {
		return fmt.Errorf("--admin-password y --owner-password son requeridos")
	}

	// Plan con todas las features y límites generosos para demo.
	const planSQL = `
		INSERT INTO plan (id, features, limits, active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (id) DO UPDATE SET features = $2, limits = $3, active = true
	`
	features := []string{"all"}
	limits := map[string]int{
		"crew_members": 25,
		"active_trips": 10,
		"open_tasks":   200,
		"documents":    500,
	}
	if _, err := pool.Exec(ctx, planSQL, p.PlanID, features, limits); err != nil {
		return fmt.Errorf("seed plan: %w", err)
	}

	yachtID := uuid.NewString()
	const yachtSQL = `
		INSERT INTO yacht (id, name, plan_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`
	if _, err := pool.Exec(ctx, yachtSQL, yachtID, p.YachtName, p.PlanID); err != nil {
		return fmt.Errorf("seed yacht: %w", err)
	}

	if err := seedUser(ctx, pool, p.AdminEmail, p.AdminPass, repository.RoleAdmin, nil); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedUser(ctx, pool, p.OwnerEmail, p.OwnerPass, repository.RoleOwner, &yachtID); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	return nil
}

func seedUser(ctx context.Context, pool *pgxpool.Pool, email, pass string, role repository.Role, yachtID *string) error {
	hash, err := password.Hash(password.Default, pass)
	if err != nil {
		return err
	}
	username := strings.SplitN(email, "@", 2)[0]
	const userSQL = `
		INSERT INTO app_user
			(id, email, username, display_name, role, yacht_id, permissions,
			 password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, now(), now())
		ON CONFLICT (email) DO NOTHING
	`
	_, err = pool.Exec(ctx, userSQL,
		uuid.NewString(), email, username, username, string(role), yachtID,
		[]string{}, hash,
	)
	return err
}
