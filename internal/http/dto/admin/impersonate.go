// Package admin contiene los DTOs de los endpoints administrativos.
package admin

// StartImpersonationRequest es el body de POST /v1/admin/impersonate.
type StartImpersonationRequest struct {
	TargetID string `json:"target_id" validate:"required,min=1,max=128"`
}

// StartImpersonationResponse confirma el marker emitido.
type StartImpersonationResponse struct {
	TargetID string `json:"target_id"`
	// ExpiresInSeconds es la ventana para canjear el marker.
	ExpiresInSeconds int `json:"expires_in_seconds"`
}

// GateCheckResponse es la respuesta de GET /v1/admin/yachts/{id}/gate.
type GateCheckResponse struct {
	YachtID string `json:"yacht_id"`
	Feature string `json:"feature,omitempty"`
	Limit   string `json:"limit,omitempty"`
	Current int    `json:"current,omitempty"`
	Allowed bool   `json:"allowed"`
}
