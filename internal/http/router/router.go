// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/helmsman/internal/http/handlers"
	mw "github.com/dropDatabas3/helmsman/internal/http/middlewares"
	"github.com/dropDatabas3/helmsman/internal/metrics"
	"github.com/dropDatabas3/helmsman/internal/session"
)

// Deps contiene todo lo que las rutas necesitan.
type Deps struct {
	Sessions *session.Manager
	Cookies  handlers.CookiePolicy

	Auth  *handlers.AuthHandlers
	Admin *handlers.AdminHandlers

	Pool *pgxpool.Pool

	CORSAllowedOrigins []string
}

// New construye el router completo.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithMetrics())
	r.Use(mw.WithRecover())

	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	writeCookie := func(w http.ResponseWriter, s *session.Session) {
		http.SetCookie(w, deps.Cookies.BuildSessionCookie(s))
	}
	withSession := mw.WithSession(deps.Sessions, deps.Cookies.Name, writeCookie)

	r.Get("/readyz", handlers.Readyz(deps.Pool))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(withSession)
		r.Post("/login", deps.Auth.Login)
		r.Post("/impersonate", deps.Auth.Impersonate)
		r.Post("/logout", deps.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession())
			r.Post("/session", deps.Auth.UpdateSession)
			r.Get("/me", deps.Auth.Me)
		})
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(withSession)
		// WithScope antes de RequireAdmin: la coerción por yacht_id
		// degrada capacidades admin y RequireAdmin la respeta.
		r.Use(mw.WithScope())
		r.Use(mw.RequireAdmin())
		r.Post("/impersonate", deps.Admin.StartImpersonation)
		r.Get("/yachts/{yachtID}/gate", deps.Admin.GateCheck)
	})

	return r
}
