package repository

import (
	"context"
	"time"
)

// Yacht representa un tenant: una embarcación cuyos datos están aislados
// del resto de la flota. El core solo lee su ID y su plan asignado.
type Yacht struct {
	ID        string
	Name      string
	PlanID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Plan describe la suscripción de un yacht.
// Features y Limits son read-only para el core.
type Plan struct {
	ID string
	// Features es la lista cruda de feature keys tal como viene del store.
	// Se valida contra el vocabulario en internal/plan al cruzar el boundary.
	Features []string
	// Limits mapea limit key -> techo numérico.
	Limits map[string]int
	Active bool
}

// YachtRepository define operaciones de lectura sobre yachts.
type YachtRepository interface {
	// GetByID busca un yacht por su ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Yacht, error)
}

// PlanRepository define operaciones de lectura sobre planes.
type PlanRepository interface {
	// GetByID busca un plan por su ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Plan, error)
}
