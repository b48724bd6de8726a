// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	// Identifier acepta email o username.
	Identifier string `json:"identifier" validate:"required,min=1,max=254"`
	Password   string `json:"password" validate:"required,min=1,max=1024"`
	RememberMe bool   `json:"remember_me"`
}

// ImpersonateLoginRequest es el body de POST /v1/auth/impersonate.
type ImpersonateLoginRequest struct {
	// TargetID es el ID de la identidad a impersonar. El marker
	// server-side previo es el que autoriza, no este campo.
	TargetID string `json:"target_id" validate:"required,min=1,max=128"`
}

// UpdateSessionRequest es el body de POST /v1/auth/session.
type UpdateSessionRequest struct {
	RememberMe bool `json:"remember_me"`
}

// SessionResponse describe la sesión vigente.
type SessionResponse struct {
	UserID         string   `json:"user_id"`
	Email          string   `json:"email"`
	DisplayName    string   `json:"display_name"`
	Role           string   `json:"role"`
	YachtID        string   `json:"yacht_id,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	RememberMe     bool     `json:"remember_me"`
	ExpiresAt      int64    `json:"expires_at"`
	ImpersonatedBy string   `json:"impersonated_by,omitempty"`
	// StorageToken puede faltar en modo degradado; los clientes deben
	// tolerar su ausencia.
	StorageToken string `json:"storage_token,omitempty"`
}
