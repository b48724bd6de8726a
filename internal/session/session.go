// Package session implementa el ciclo de vida del artefacto de sesión firmado:
// emisión, validación fail-closed, regeneración periódica del storage token
// derivado, y actualización de remember-me.
//
// Estados: Absent → Issued → Valid → Refreshing → Valid | Expired.
// Una sesión expirada o indecodificable es idéntica a "sin sesión" para todo
// consumidor downstream.
package session

import (
	"time"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

// TTLs del artefacto primario y del storage token derivado.
const (
	// DefaultTTL es la vida de una sesión sin remember-me.
	DefaultTTL = 24 * time.Hour
	// RememberTTL es la vida con remember-me.
	RememberTTL = 30 * 24 * time.Hour
	// StorageTokenTTL es la vida del storage token derivado.
	StorageTokenTTL = 7 * 24 * time.Hour
	// StorageRefreshWindow: si al storage token le queda menos que esto,
	// se re-firma en el próximo acceso.
	StorageRefreshWindow = time.Hour
	// HydrateTimeout acota la re-hidratación best-effort de perfil.
	HydrateTimeout = 2 * time.Second
)

// Session es el valor resuelto de un artefacto válido.
// Los campos de identidad son read-only para el resto del sistema.
type Session struct {
	User       repository.User
	IssuedAt   time.Time
	ExpiresAt  time.Time
	RememberMe bool

	// ImpersonatedBy es el ID del admin actuante, o "" si no hay impersonación.
	ImpersonatedBy string

	// Token es el artefacto firmado vigente (puede diferir del recibido
	// si hubo refresh del storage token).
	Token string
	// Refreshed indica que Token fue re-firmado durante Resolve y el
	// caller debe re-emitir la cookie.
	Refreshed bool

	// StorageToken es el token derivado para el servicio externo de
	// storage. Vacío en modo degradado (secret no configurado): el
	// código que lo consume debe tolerar su ausencia.
	StorageToken string
}

// YachtID retorna el yacht de la sesión, o "" si la identidad no está atada.
func (s *Session) YachtID() string {
	if s == nil || s.User.YachtID == nil {
		return ""
	}
	return *s.User.YachtID
}
