package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/helmsman/internal/auth"
	"github.com/dropDatabas3/helmsman/internal/cache"
	"github.com/dropDatabas3/helmsman/internal/config"
	httpserver "github.com/dropDatabas3/helmsman/internal/http"
	"github.com/dropDatabas3/helmsman/internal/http/handlers"
	"github.com/dropDatabas3/helmsman/internal/http/router"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
	"github.com/dropDatabas3/helmsman/internal/plan"
	"github.com/dropDatabas3/helmsman/internal/session"
	"github.com/dropDatabas3/helmsman/internal/store/pg"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using system environment: %v", err)
	}

	cfgPath := flag.String("config", "config.yaml", "ruta del archivo de configuración")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	defer logger.Sync()
	lg := logger.Named("service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pg.NewPool(ctx, pg.PoolConfig{
		DSN:      cfg.Storage.Postgres.DSN,
		MaxConns: cfg.Storage.Postgres.MaxConns,
	})
	if err != nil {
		lg.Error("postgres pool init failed", logger.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	cacheClient := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	defer cacheClient.Close()

	users := pg.NewUserRepository(pool)
	yachts := pg.NewYachtRepository(pool)
	plans := pg.NewPlanRepository(pool)

	var storageSecret []byte
	if cfg.Auth.StorageSecret != "" {
		storageSecret = []byte(cfg.Auth.StorageSecret)
	} else {
		lg.Warn("storage secret missing, storage tokens disabled")
	}

	sessions := session.NewManager(session.ManagerDeps{
		SessionSecret: cfg.SessionSecretOrDev(),
		StorageSecret: storageSecret,
		Users:         users,
	})
	authenticator := auth.New(auth.Deps{Users: users, Cache: cacheClient})
	gate := plan.NewGate(plan.GateDeps{Yachts: yachts, Plans: plans, Cache: cacheClient})

	cookies := handlers.CookiePolicy{
		Name:     cfg.Auth.Session.CookieName,
		Domain:   cfg.Auth.Session.Domain,
		SameSite: cfg.Auth.Session.SameSite,
		Secure:   cfg.Auth.Session.Secure,
	}

	h := router.New(router.Deps{
		Sessions: sessions,
		Cookies:  cookies,
		Auth: handlers.NewAuthHandlers(handlers.AuthDeps{
			Authenticator: authenticator,
			Sessions:      sessions,
			Cookies:       cookies,
		}),
		Admin: handlers.NewAdminHandlers(handlers.AdminDeps{
			Authenticator: authenticator,
			Gate:          gate,
		}),
		Pool:               pool,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	if err := httpserver.Serve(ctx, cfg.Server.Addr, h); err != nil {
		lg.Error("server exited with error", logger.Err(err))
		os.Exit(1)
	}
	lg.Info("server stopped")
}
