package tenancy

import (
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

// Filter es un predicado de query efímero (columna -> valor esperado).
// Nunca se persiste; se recalcula por query.
type Filter map[string]any

// Scope es el resultado del guard: o bien acotado a un yacht, o bien
// sin restricción (solo admins). Sum type explícito: los dos casos se
// distinguen por type switch, no por flags booleanos.
type Scope interface {
	// Apply retorna una COPIA de base con la restricción del scope.
	Apply(base Filter) Filter

	isScope()
}

// Scoped acota toda query a exactamente un yacht.
type Scoped struct {
	YachtID string
}

func (Scoped) isScope() {}

// Apply retorna base ∪ {yacht_id}. Siempre copia: el filtro base del
// caller no se muta.
func (s Scoped) Apply(base Filter) Filter {
	out := make(Filter, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out["yacht_id"] = s.YachtID
	return out
}

// Unscoped no agrega restricción de tenant. Solo alcanzable por admins
// de plataforma que NO pidieron vista de un yacht concreto.
type Unscoped struct{}

func (Unscoped) isScope() {}

// Apply retorna una copia de base sin agregar yacht_id.
func (Unscoped) Apply(base Filter) Filter {
	out := make(Filter, len(base))
	for k, v := range base {
		out[k] = v
	}
	return out
}

// Option ajusta ScopeFor.
type Option func(*options)

type options struct {
	asYacht string
}

// AsYacht fuerza la vista de un yacht concreto. Solo tiene efecto para
// admins de plataforma: un admin que opta por la vista de un tenant
// recibe exactamente el mismo scope angosto que un usuario de ese
// tenant, sin ningún camino que lo ensanche de vuelta. Para no-admins
// se ignora: su propio yacht siempre gana.
func AsYacht(yachtID string) Option {
	return func(o *options) { o.asYacht = yachtID }
}

// ScopeFor resuelve el scope de datos de una identidad.
//
//   - no-admin con yacht: Scoped{su yacht}, siempre.
//   - no-admin sin yacht: ErrYachtRequired (fail loud, nunca un filtro abierto).
//   - admin: Unscoped, salvo que pida AsYacht(id) → Scoped{id}.
func ScopeFor(u *repository.User, opts ...Option) (Scope, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if IsPlatformAdmin(u) {
		if o.asYacht != "" {
			return Scoped{YachtID: o.asYacht}, nil
		}
		return Unscoped{}, nil
	}

	yid, ok := YachtOf(u)
	if !ok {
		return nil, ErrYachtRequired
	}
	return Scoped{YachtID: yid}, nil
}

// RequireYachtMatch verifica que un recurso ya cargado pertenezca al
// scope del caller. Se usa antes de vincular registros entre sí (ej:
// colgar un task de un trip) para impedir cruzar recursos de dos yachts.
// Un scope Unscoped matchea cualquier recurso.
func RequireYachtMatch(s Scope, resourceYachtID string) error {
	switch sc := s.(type) {
	case Scoped:
		if sc.YachtID != resourceYachtID {
			return ErrYachtMismatch
		}
		return nil
	case Unscoped:
		return nil
	default:
		// Scope desconocido: fail closed.
		return ErrYachtMismatch
	}
}

// ApplyActive compone el scope con el predicado de soft-delete
// (deleted_at IS NULL), para que scoping de tenant y filtrado de
// borrados no sean olvidables por separado.
func ApplyActive(s Scope, base Filter) Filter {
	out := s.Apply(base)
	out["deleted_at"] = nil
	return out
}
