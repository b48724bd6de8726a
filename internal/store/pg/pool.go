// Package pg implementa los repositorios del dominio sobre PostgreSQL (pgx).
//
// El pool se construye explícitamente en el composition root (cmd/service)
// y se inyecta: nada de handles globales lazy-initializados, los test
// doubles entran por las interfaces de repository.
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig parametriza la conexión.
type PoolConfig struct {
	DSN      string
	MaxConns int
}

// NewPool crea y verifica un pgxpool. El caller es dueño del lifecycle
// (Close en shutdown).
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parsing dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return pool, nil
}
