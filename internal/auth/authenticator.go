// Package auth implementa la autenticación por credenciales y el camino
// privilegiado de impersonación.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/helmsman/internal/cache"
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
	"github.com/dropDatabas3/helmsman/internal/security/password"
	"github.com/dropDatabas3/helmsman/internal/security/token"
	"github.com/dropDatabas3/helmsman/internal/tenancy"
)

// ErrInvalidCredentials es la única señal de fallo hacia afuera.
// Usuario inexistente, cuenta inactiva y password incorrecto son
// indistinguibles para el caller (anti user-enumeration); el motivo
// real queda solo en logs de servidor.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrNotPlatformAdmin: solo un admin de plataforma puede iniciar impersonación.
var ErrNotPlatformAdmin = errors.New("auth: impersonation requires a platform admin")

const (
	// markerTTL es la vida del marker server-side de impersonación.
	markerTTL    = 2 * time.Minute
	markerPrefix = "impersonate:marker:"
)

// markerKey deriva la key de cache del marker. Se guarda el digest del
// target, no su ID en claro: el backend de cache (redis compartido
// incluido) nunca ve a quién se está por impersonar.
func markerKey(targetID string) string {
	return markerPrefix + token.SHA256Base64URL(targetID)
}

// Deps contiene las dependencias del authenticator.
type Deps struct {
	Users repository.UserRepository
	// Cache guarda los markers de impersonación.
	Cache cache.Client
}

// Authenticator verifica credenciales contra el store de identidades.
// Solo lee: jamás muta estado de usuarios.
type Authenticator struct {
	deps Deps
}

// New crea un authenticator.
func New(deps Deps) *Authenticator {
	return &Authenticator{deps: deps}
}

// Authenticate verifica identifier+secret y retorna la identidad normalizada.
// Busca primero por email y, si no hay registro, por username; exactamente
// esa secuencia, siempre.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, secret string) (*repository.User, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Authenticate"))

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		log.Debug("authentication denied", logger.Reason("missing identifier or secret"))
		return nil, ErrInvalidCredentials
	}

	u, err := a.deps.Users.GetByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, repository.ErrNotFound) {
		u, err = a.deps.Users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("authentication denied", logger.Reason("no record under either identifier"))
		} else {
			log.Error("identity lookup failed", logger.Err(err))
		}
		return nil, ErrInvalidCredentials
	}

	log = log.With(logger.UserID(u.ID))

	if !u.Active {
		log.Info("authentication denied", logger.Reason("account inactive"))
		return nil, ErrInvalidCredentials
	}
	if u.PasswordHash == "" || !password.Verify(secret, u.PasswordHash) {
		log.Debug("authentication denied", logger.Reason("password mismatch"))
		return nil, ErrInvalidCredentials
	}

	log.Info("authentication succeeded")
	return u, nil
}

// StartImpersonation registra el marker server-side que habilita a un admin
// actuante a tomar la sesión del target. El marker es corto y de un solo uso.
func (a *Authenticator) StartImpersonation(ctx context.Context, actingAdmin *repository.User, targetID string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("StartImpersonation"))

	if !tenancy.IsPlatformAdmin(actingAdmin) {
		log.Warn("impersonation start denied", logger.Reason("caller is not a platform admin"),
			logger.UserID(actingAdmin.ID))
		return ErrNotPlatformAdmin
	}
	if targetID == "" {
		return fmt.Errorf("auth: empty impersonation target")
	}
	if err := a.deps.Cache.Set(ctx, markerKey(targetID), actingAdmin.ID, markerTTL); err != nil {
		return fmt.Errorf("auth: storing impersonation marker: %w", err)
	}
	log.Info("impersonation marker set", logger.UserID(actingAdmin.ID), logger.String("target_id", targetID))
	return nil
}

// AuthenticateImpersonation canjea un target ID por la identidad del target,
// marcada con ImpersonatedBy. Las cuatro precondiciones son duras; cualquiera
// ausente deniega con la señal uniforme y log de evento de seguridad:
//
//	(a) marker server-side presente para ese target
//	(b) el admin actuante sigue siendo admin de plataforma
//	(c) el admin actuante sigue activo
//	(d) el target existe y está activo
func (a *Authenticator) AuthenticateImpersonation(ctx context.Context, targetID string) (*repository.User, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"),
		logger.Op("AuthenticateImpersonation"), logger.String("target_id", targetID))

	deny := func(reason string) (*repository.User, error) {
		log.Warn("impersonation denied", logger.Reason(reason))
		return nil, ErrInvalidCredentials
	}

	if targetID == "" {
		return deny("empty target")
	}

	// (a) marker presente.
	adminID, err := a.deps.Cache.Get(ctx, markerKey(targetID))
	if err != nil {
		return deny("no impersonation marker")
	}
	// Un solo uso: el marker se consume gane o pierda el resto del chequeo.
	_ = a.deps.Cache.Delete(ctx, markerKey(targetID))

	admin, err := a.deps.Users.GetByID(ctx, adminID)
	if err != nil {
		return deny("acting admin not found")
	}
	// (b) el rol sigue elevado.
	if !tenancy.IsPlatformAdmin(admin) {
		return deny("acting admin role no longer elevated")
	}
	// (c) el admin sigue activo.
	if !admin.Active {
		return deny("acting admin inactive")
	}

	// (d) target existe y activo.
	target, err := a.deps.Users.GetByID(ctx, targetID)
	if err != nil {
		return deny("target not found")
	}
	if !target.Active {
		return deny("target inactive")
	}

	out := *target
	out.ImpersonatedBy = admin.ID
	log.Info("impersonation granted", logger.UserID(admin.ID))
	return &out, nil
}
