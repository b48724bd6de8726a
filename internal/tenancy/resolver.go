// Package tenancy implementa la resolución de tenant y el scope guard:
// toda query de datos pasa por acá para quedar acotada a exactamente un
// yacht, o falla cerrado.
package tenancy

import (
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

// YachtOf retorna el yacht al que está atada la identidad.
// ok es false para identidades sin tenant (admins de plataforma,
// o datos corruptos). Pura, sin I/O.
func YachtOf(u *repository.User) (string, bool) {
	if u == nil || u.YachtID == nil || *u.YachtID == "" {
		return "", false
	}
	return *u.YachtID, true
}

// IsPlatformAdmin reporta si la identidad tiene acceso cross-tenant.
// Solo RoleAdmin califica. Owner y captain son roles privilegiados
// DENTRO de su yacht: confundirlos con admin de plataforma es la clase
// de bug más peligrosa de este subsistema.
func IsPlatformAdmin(u *repository.User) bool {
	return u != nil && u.Role == repository.RoleAdmin
}
