// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno. Los secretos solo viven en env.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		Postgres struct {
			DSN      string `yaml:"dsn"`
			MaxConns int    `yaml:"max_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		Session struct {
			CookieName string `yaml:"cookie_name"`
			Domain     string `yaml:"domain"`
			SameSite   string `yaml:"samesite"`
			Secure     bool   `yaml:"secure"`
		} `yaml:"session"`

		// SessionSecret firma el artefacto de sesión. Solo por env
		// (HELMSMAN_SESSION_SECRET); obligatorio en prod.
		SessionSecret string `yaml:"-"`
		// StorageSecret firma el storage token derivado. Solo por env
		// (HELMSMAN_STORAGE_SECRET); su ausencia degrada, no mata.
		StorageSecret string `yaml:"-"`
	} `yaml:"auth"`
}

// Load lee el YAML (opcional), aplica defaults y levanta secretos de env.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "helmsman"
	}
	if c.Auth.Session.CookieName == "" {
		c.Auth.Session.CookieName = "helmsman_session"
	}
	if c.Auth.Session.SameSite == "" {
		c.Auth.Session.SameSite = "Lax"
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = 10
	}

	// env overrides
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Kind = "redis"
		c.Cache.Redis.Addr = v
	}

	// secretos: solo env
	c.Auth.SessionSecret = os.Getenv("HELMSMAN_SESSION_SECRET")
	c.Auth.StorageSecret = os.Getenv("HELMSMAN_STORAGE_SECRET")

	return &c, nil
}

// IsProd reporta si corre en producción.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod")
}

// Validate aplica las reglas de arranque. El secret de sesión faltante es
// fatal en prod (el primario firma toda la autorización); el de storage
// NO se valida acá: su ausencia degrada en runtime con log de error.
func (c *Config) Validate() error {
	if c.Auth.SessionSecret == "" {
		if c.IsProd() {
			return fmt.Errorf("config: HELMSMAN_SESSION_SECRET is required in prod")
		}
	}
	if c.IsProd() && !c.Auth.Session.Secure {
		return fmt.Errorf("config: session cookie must be Secure in prod")
	}
	if c.Storage.Postgres.DSN == "" {
		return fmt.Errorf("config: postgres DSN is required (storage.postgres.dsn or DATABASE_DSN)")
	}
	return nil
}

// SessionSecretOrDev retorna el secret de sesión; en dev, si falta,
// genera uno fijo de desarrollo para no trabar el arranque local.
func (c *Config) SessionSecretOrDev() []byte {
	if c.Auth.SessionSecret != "" {
		return []byte(c.Auth.SessionSecret)
	}
	return []byte("helmsman-dev-session-secret-do-not-use-in-prod")
}
