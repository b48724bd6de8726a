package handlers

import (
	"net/http"

	"github.com/dropDatabas3/helmsman/internal/auth"
	dto "github.com/dropDatabas3/helmsman/internal/http/dto/auth"
	httpErrors "github.com/dropDatabas3/helmsman/internal/http/errors"
	"github.com/dropDatabas3/helmsman/internal/metrics"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
	"github.com/dropDatabas3/helmsman/internal/session"
)

// AuthDeps contiene las dependencias de los handlers de autenticación.
type AuthDeps struct {
	Authenticator *auth.Authenticator
	Sessions      *session.Manager
	Cookies       CookiePolicy
}

// AuthHandlers agrupa los endpoints de /v1/auth.
type AuthHandlers struct {
	deps AuthDeps
}

// NewAuthHandlers crea los handlers de autenticación.
func NewAuthHandlers(deps AuthDeps) *AuthHandlers {
	return &AuthHandlers{deps: deps}
}

// Login maneja POST /v1/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		httpErrors.WriteError(w, appErr)
		return
	}

	u, err := h.deps.Authenticator.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		// Señal uniforme: el motivo real quedó en logs del service.
		metrics.AuthFailures.Inc()
		httpErrors.WriteError(w, httpErrors.ErrInvalidCredentials)
		return
	}

	s, err := h.deps.Sessions.Issue(r.Context(), u, req.RememberMe)
	if err != nil {
		logger.From(r.Context()).Error("session issue failed", logger.Err(err))
		httpErrors.WriteError(w, httpErrors.ErrInternal)
		return
	}

	http.SetCookie(w, h.deps.Cookies.BuildSessionCookie(s))
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

// Impersonate maneja POST /v1/auth/impersonate: canjea un marker previo
// (seteado por un admin vía /v1/admin/impersonate) por la sesión del target.
func (h *AuthHandlers) Impersonate(w http.ResponseWriter, r *http.Request) {
	var req dto.ImpersonateLoginRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		httpErrors.WriteError(w, appErr)
		return
	}

	u, err := h.deps.Authenticator.AuthenticateImpersonation(r.Context(), req.TargetID)
	if err != nil {
		metrics.ImpersonationDenials.Inc()
		httpErrors.WriteError(w, httpErrors.ErrInvalidCredentials)
		return
	}

	// Las sesiones impersonadas nunca persisten más allá del default.
	s, err := h.deps.Sessions.Issue(r.Context(), u, false)
	if err != nil {
		logger.From(r.Context()).Error("session issue failed", logger.Err(err))
		httpErrors.WriteError(w, httpErrors.ErrInternal)
		return
	}

	http.SetCookie(w, h.deps.Cookies.BuildSessionCookie(s))
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

// Logout maneja POST /v1/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.deps.Cookies.BuildDeletionCookie())
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSession maneja POST /v1/auth/session: togglea remember-me sin
// re-autenticación.
func (h *AuthHandlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateSessionRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		httpErrors.WriteError(w, appErr)
		return
	}

	up, err := h.deps.Sessions.Update(r.Context(), s, req.RememberMe)
	if err != nil {
		logger.From(r.Context()).Error("session update failed", logger.Err(err))
		httpErrors.WriteError(w, httpErrors.ErrInternal)
		return
	}

	http.SetCookie(w, h.deps.Cookies.BuildSessionCookie(up))
	writeJSON(w, http.StatusOK, sessionResponse(up))
}

// Me maneja GET /v1/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		httpErrors.WriteError(w, httpErrors.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

func sessionResponse(s *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		UserID:         s.User.ID,
		Email:          s.User.Email,
		DisplayName:    s.User.DisplayName,
		Role:           string(s.User.Role),
		YachtID:        s.YachtID(),
		Permissions:    s.User.Permissions,
		RememberMe:     s.RememberMe,
		ExpiresAt:      s.ExpiresAt.Unix(),
		ImpersonatedBy: s.ImpersonatedBy,
		StorageToken:   s.StorageToken,
	}
}
