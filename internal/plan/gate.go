package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropDatabas3/helmsman/internal/cache"
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
)

// Errores de las variantes require. Las variantes booleanas nunca fallan
// hacia el caller: denegación silenciosa + warn log.
var (
	// ErrFeatureDenied lleva un mensaje accionable por el usuario (upgrade).
	ErrFeatureDenied = fmt.Errorf("this feature is not included in your plan; upgrade to unlock it")
	// ErrLimitExceeded ídem para techos numéricos.
	ErrLimitExceeded = fmt.Errorf("your plan limit has been reached; upgrade to raise it")
)

const planCacheTTL = 2 * time.Minute

// GateDeps contiene las dependencias del gate.
type GateDeps struct {
	Yachts repository.YachtRepository
	Plans  repository.PlanRepository
	// Cache opcional: memoiza lookups yacht->plan. nil = sin cache.
	Cache cache.Client
}

// Gate decide acceso por suscripción. Read-only sobre yacht/plan:
// seguro bajo concurrencia arbitraria, sin locks.
type Gate struct {
	deps GateDeps
}

// NewGate crea un gate.
func NewGate(deps GateDeps) *Gate {
	return &Gate{deps: deps}
}

// HasFeature reporta si el plan del yacht incluye la feature.
// Deniega (false) ante: yacht inexistente, plan sin asignar, plan
// inactivo, o datos de plan malformados. Siempre con warn log.
func (g *Gate) HasFeature(ctx context.Context, yachtID string, f Feature) bool {
	fs, _, ok := g.resolve(ctx, yachtID)
	if !ok {
		return false
	}
	return fs.Has(f)
}

// WithinLimit reporta si current deja lugar bajo el techo del plan.
// Comparación estricta: current == techo significa YA en el límite
// (se deniega crear uno más). Límite no configurado o key desconocida
// deniegan.
func (g *Gate) WithinLimit(ctx context.Context, yachtID string, l Limit, current int) bool {
	log := logger.From(ctx).With(logger.Component("plan.gate"), logger.YachtID(yachtID), logger.Limit(string(l)))

	if !KnownLimit(l) {
		log.Warn("unknown limit key, denying")
		return false
	}
	_, limits, ok := g.resolve(ctx, yachtID)
	if !ok {
		return false
	}
	ceiling, ok := limits[string(l)]
	if !ok || ceiling < 0 {
		log.Warn("limit not configured in plan, denying")
		return false
	}
	return current < ceiling
}

// RequireFeature es la variante que falla: ErrFeatureDenied con mensaje
// de upgrade para el usuario.
func (g *Gate) RequireFeature(ctx context.Context, yachtID string, f Feature) error {
	if !g.HasFeature(ctx, yachtID, f) {
		return ErrFeatureDenied
	}
	return nil
}

// RequireLimit ídem para límites.
func (g *Gate) RequireLimit(ctx context.Context, yachtID string, l Limit, current int) error {
	if !g.WithinLimit(ctx, yachtID, l, current) {
		return ErrLimitExceeded
	}
	return nil
}

// cachedPlan es la forma serializada del plan en cache.
type cachedPlan struct {
	Features []string       `json:"features"`
	Limits   map[string]int `json:"limits"`
	Active   bool           `json:"active"`
}

// resolve hace el lookup yacht -> plan y valida. ok=false significa deny.
func (g *Gate) resolve(ctx context.Context, yachtID string) (FeatureSet, map[string]int, bool) {
	log := logger.From(ctx).With(logger.Component("plan.gate"), logger.YachtID(yachtID))

	if yachtID == "" {
		log.Warn("empty yacht id, denying")
		return FeatureSet{}, nil, false
	}

	p, err := g.lookup(ctx, yachtID)
	if err != nil {
		log.Warn("plan resolution failed, denying", logger.Err(err))
		return FeatureSet{}, nil, false
	}
	if !p.Active {
		log.Warn("plan inactive, denying")
		return FeatureSet{}, nil, false
	}
	fs, err := ParseFeatureSet(p.Features)
	if err != nil {
		log.Warn("malformed plan features, denying", logger.Err(err))
		return FeatureSet{}, nil, false
	}
	return fs, p.Limits, true
}

func (g *Gate) lookup(ctx context.Context, yachtID string) (*repository.Plan, error) {
	cacheKey := "plan:yacht:" + yachtID

	if g.deps.Cache != nil {
		if raw, err := g.deps.Cache.Get(ctx, cacheKey); err == nil {
			var cp cachedPlan
			if json.Unmarshal([]byte(raw), &cp) == nil {
				return &repository.Plan{Features: cp.Features, Limits: cp.Limits, Active: cp.Active}, nil
			}
			// Entrada corrupta: descartar y reconsultar.
			_ = g.deps.Cache.Delete(ctx, cacheKey)
		}
	}

	y, err := g.deps.Yachts.GetByID(ctx, yachtID)
	if err != nil {
		return nil, fmt.Errorf("yacht lookup: %w", err)
	}
	if y.PlanID == nil || *y.PlanID == "" {
		return nil, fmt.Errorf("yacht %s has no plan assigned", yachtID)
	}
	p, err := g.deps.Plans.GetByID(ctx, *y.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan lookup: %w", err)
	}

	if g.deps.Cache != nil {
		b, err := json.Marshal(cachedPlan{Features: p.Features, Limits: p.Limits, Active: p.Active})
		if err == nil {
			_ = g.deps.Cache.Set(ctx, cacheKey, string(b), planCacheTTL)
		}
	}
	return p, nil
}
