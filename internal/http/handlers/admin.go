package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/helmsman/internal/auth"
	dto "github.com/dropDatabas3/helmsman/internal/http/dto/admin"
	httpErrors "github.com/dropDatabas3/helmsman/internal/http/errors"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
	"github.com/dropDatabas3/helmsman/internal/plan"
	"github.com/dropDatabas3/helmsman/internal/session"
)

// AdminDeps contiene las dependencias de los handlers administrativos.
type AdminDeps struct {
	Authenticator *auth.Authenticator
	Gate          *plan.Gate
}

// AdminHandlers agrupa los endpoints de /v1/admin.
// Todas las rutas van detrás de RequireAdmin: acá no se re-chequea rol.
type AdminHandlers struct {
	deps AdminDeps
}

// NewAdminHandlers crea los handlers administrativos.
func NewAdminHandlers(deps AdminDeps) *AdminHandlers {
	return &AdminHandlers{deps: deps}
}

// StartImpersonation maneja POST /v1/admin/impersonate: deja el marker
// server-side que el admin canjea después en /v1/auth/impersonate.
func (h *AdminHandlers) StartImpersonation(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
		return
	}

	var req dto.StartImpersonationRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		httpErrors.WriteError(w, appErr)
		return
	}

	if err := h.deps.Authenticator.StartImpersonation(r.Context(), &s.User, req.TargetID); err != nil {
		if errors.Is(err, auth.ErrNotPlatformAdmin) {
			httpErrors.WriteError(w, httpErrors.ErrForbidden)
			return
		}
		logger.From(r.Context()).Error("impersonation marker failed", logger.Err(err))
		httpErrors.WriteError(w, httpErrors.ErrInternal)
		return
	}

	writeJSON(w, http.StatusOK, dto.StartImpersonationResponse{
		TargetID:         req.TargetID,
		ExpiresInSeconds: 120,
	})
}

// GateCheck maneja GET /v1/admin/yachts/{yachtID}/gate?feature=... o
// ?limit=...&current=N. Inspección de decisiones del gate para soporte.
func (h *AdminHandlers) GateCheck(w http.ResponseWriter, r *http.Request) {
	yachtID := chi.URLParam(r, "yachtID")
	q := r.URL.Query()

	resp := dto.GateCheckResponse{YachtID: yachtID}
	switch {
	case q.Get("feature") != "":
		resp.Feature = q.Get("feature")
		resp.Allowed = h.deps.Gate.HasFeature(r.Context(), yachtID, plan.Feature(resp.Feature))
	case q.Get("limit") != "":
		resp.Limit = q.Get("limit")
		current, err := parseIntParam(q.Get("current"))
		if err != nil {
			httpErrors.WriteError(w, httpErrors.ErrBadRequest.WithDetail("current must be an integer"))
			return
		}
		resp.Current = current
		resp.Allowed = h.deps.Gate.WithinLimit(r.Context(), yachtID, plan.Limit(resp.Limit), current)
	default:
		httpErrors.WriteError(w, httpErrors.ErrBadRequest.WithDetail("feature or limit query param required"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
