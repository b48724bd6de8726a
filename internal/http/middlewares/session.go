package middlewares

import (
	"context"
	"net/http"
	"strings"

	httpErrors "github.com/dropDatabas3/helmsman/internal/http/errors"
	"github.com/dropDatabas3/helmsman/internal/metrics"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
	"github.com/dropDatabas3/helmsman/internal/session"
	"github.com/dropDatabas3/helmsman/internal/tenancy"
)

// CookieWriter re-emite la cookie de sesión cuando el manager re-firmó
// el artefacto durante Resolve.
type CookieWriter func(w http.ResponseWriter, s *session.Session)

// WithSession resuelve la sesión EXACTAMENTE una vez por request y la
// memoiza en el contexto; todo el pipeline downstream la lee con
// session.FromContext. Requests concurrentes resuelven cada uno la suya:
// no hay estado compartido ni staleness posible por construcción.
//
// Una sesión inválida o expirada deja el contexto sin sesión (request
// anónimo); acá no se deniega nada.
func WithSession(mgr *session.Manager, cookieName string, writeCookie CookieWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if c, err := r.Cookie(cookieName); err == nil {
				raw = c.Value
			} else if ah := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				// Clientes no-browser (CLI, mobile) mandan el artefacto por header.
				raw = strings.TrimSpace(ah[len("Bearer "):])
			}

			s := mgr.Resolve(r.Context(), raw)
			if s == nil {
				next.ServeHTTP(w, r)
				return
			}

			if s.Refreshed && writeCookie != nil {
				writeCookie(w, s)
			}

			ctx := session.WithContext(r.Context(), s)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.UserID(s.User.ID),
				logger.YachtID(s.YachtID()),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession corta con 401 los requests anónimos.
// Debe usarse después de WithSession.
func RequireSession() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()) == nil {
				httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ─── Scope por request ───

type scopeKey struct{}
type coercedKey struct{}

// WithScope resuelve el tenancy.Scope del request y lo memoiza.
//
// El query param yacht_id se honra SOLO para admins de plataforma
// (coerciona su vista a ese tenant por el resto del request). Para
// no-admins se ignora: su yacht propio siempre gana. Permitir lo
// contrario sería exactamente la fuga cross-tenant que este subsistema
// existe para impedir.
//
// Un admin coercionado pierde además sus capacidades admin-only por el
// resto del request (ActingAdmin reporta false): defensa en profundidad.
func WithScope() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil {
				httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
				return
			}

			var opts []tenancy.Option
			coerced := false
			if qp := strings.TrimSpace(r.URL.Query().Get("yacht_id")); qp != "" && tenancy.IsPlatformAdmin(&s.User) {
				opts = append(opts, tenancy.AsYacht(qp))
				coerced = true
			}

			scope, err := tenancy.ScopeFor(&s.User, opts...)
			if err != nil {
				// Identidad sin tenant y sin privilegios: fail loud.
				metrics.ScopeViolations.Inc()
				logger.From(r.Context()).Error("scope resolution failed", logger.Err(err))
				httpErrors.WriteError(w, httpErrors.ErrYachtRequired)
				return
			}

			ctx := context.WithValue(r.Context(), scopeKey{}, scope)
			if coerced {
				ctx = context.WithValue(ctx, coercedKey{}, true)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeFrom retorna el scope memoizado del request.
func ScopeFrom(ctx context.Context) (tenancy.Scope, bool) {
	if v := ctx.Value(scopeKey{}); v != nil {
		if s, ok := v.(tenancy.Scope); ok {
			return s, true
		}
	}
	return nil, false
}

// ActingAdmin reporta si el request conserva capacidades de admin de
// plataforma: sesión admin Y sin coerción de tenant vigente.
func ActingAdmin(ctx context.Context) bool {
	s := session.FromContext(ctx)
	if s == nil || !tenancy.IsPlatformAdmin(&s.User) {
		return false
	}
	if v := ctx.Value(coercedKey{}); v != nil {
		if c, ok := v.(bool); ok && c {
			return false
		}
	}
	return true
}

// RequireAdmin corta con 403 los requests sin capacidades admin vigentes.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()) == nil {
				httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
				return
			}
			if !ActingAdmin(r.Context()) {
				httpErrors.WriteError(w, httpErrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
