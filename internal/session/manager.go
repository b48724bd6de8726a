package session

import (
	"context"
	"time"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
)

// ManagerDeps contiene las dependencias del manager.
type ManagerDeps struct {
	// SessionSecret firma el artefacto primario. Obligatorio.
	SessionSecret []byte
	// StorageSecret firma el storage token derivado. Puede faltar:
	// el manager degrada (sin storage token) en vez de romper la sesión.
	StorageSecret []byte
	// Users habilita la re-hidratación best-effort de perfil en Resolve.
	// nil = sin re-hidratación.
	Users repository.UserRepository
	// Now inyectable para tests. nil = time.Now.
	Now func() time.Time
}

// Manager es el dueño del ciclo de vida de la sesión. Es el único que
// muta el valor de sesión (extensión de expiry, flag de impersonación).
type Manager struct {
	deps ManagerDeps
}

// NewManager crea un manager.
func NewManager(deps ManagerDeps) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{deps: deps}
}

// now trunca a segundos enteros: las claims JWT guardan Unix seconds y
// la sesión emitida debe coincidir exactamente con lo que sus claims
// van a reconstruir.
func (m *Manager) now() time.Time { return m.deps.Now().UTC().Truncate(time.Second) }

// TTLFor retorna la vida de sesión según remember-me.
func TTLFor(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberTTL
	}
	return DefaultTTL
}

// Issue emite el artefacto para una identidad recién autenticada.
// Absent → Issued.
func (m *Manager) Issue(ctx context.Context, u *repository.User, rememberMe bool) (*Session, error) {
	now := m.now()
	s := &Session{
		User:           *u,
		IssuedAt:       now,
		ExpiresAt:      now.Add(TTLFor(rememberMe)),
		RememberMe:     rememberMe,
		ImpersonatedBy: u.ImpersonatedBy,
	}
	m.attachStorageToken(ctx, s, now)

	raw, err := signPrimary(buildPrimaryClaims(s), m.deps.SessionSecret)
	if err != nil {
		return nil, err
	}
	s.Token = raw
	return s, nil
}

// Resolve valida un artefacto entrante. Retorna nil ante cualquier decode
// error o exp vencido: una sesión inválida es indistinguible de ninguna
// sesión, para que los callers rendericen sign-in en vez de romperse.
//
// Sobre una sesión válida dispara Refreshing cuando el storage token está
// ausente o le queda menos de StorageRefreshWindow; en ese caso
// Session.Refreshed es true y Token trae el artefacto re-firmado. El
// refresh nunca extiende el exp primario.
func (m *Manager) Resolve(ctx context.Context, raw string) *Session {
	if raw == "" {
		return nil
	}
	log := logger.From(ctx).With(logger.Component("session.manager"), logger.Op("Resolve"))

	claims, err := parsePrimary(raw, m.deps.SessionSecret)
	if err != nil {
		// Token roto o firmado con otra clave: sign-out implícito.
		log.Debug("artifact decode failed, treating as signed out")
		return nil
	}
	s, err := sessionFromClaims(claims)
	if err != nil {
		log.Debug("artifact claims malformed, treating as signed out")
		return nil
	}

	now := m.now()
	if s.ExpiresAt.IsZero() {
		// Una sesión viva sin exp es un bug: parchear al default.
		log.Warn("session without exp, patching to default ttl", logger.UserID(s.User.ID))
		s.ExpiresAt = now.Add(DefaultTTL)
	} else if !now.Before(s.ExpiresAt) {
		// Valid → Expired. Sentinel de deny, no error.
		return nil
	}

	s.Token = raw

	if m.needsStorageRefresh(s, now) {
		m.refresh(ctx, s, now)
	}
	return s
}

// Update togglea remember-me sin re-autenticación y recalcula exp.
// Operación explícita, distinta del refresh (que jamás toca el exp primario).
func (m *Manager) Update(ctx context.Context, s *Session, rememberMe bool) (*Session, error) {
	now := m.now()
	out := *s
	out.RememberMe = rememberMe
	out.ExpiresAt = now.Add(TTLFor(rememberMe))

	raw, err := signPrimary(buildPrimaryClaims(&out), m.deps.SessionSecret)
	if err != nil {
		return nil, err
	}
	out.Token = raw
	out.Refreshed = true
	return &out, nil
}

// needsStorageRefresh decide si toca regenerar el storage token.
func (m *Manager) needsStorageRefresh(s *Session, now time.Time) bool {
	if s.StorageToken == "" {
		return true
	}
	exp, ok := storageTokenExpiry(s.StorageToken, m.deps.StorageSecret)
	if !ok {
		return true
	}
	return exp.Sub(now) < StorageRefreshWindow
}

// refresh regenera el storage token con las claims actuales de la sesión
// y re-firma el artefacto primario manteniendo su exp intacto.
// Valid → Refreshing → Valid.
//
// No hay lock distribuido: dos accesos casi simultáneos pueden re-firmar
// ambos. Es seguro porque firmar es puro; ver signStorageToken.
func (m *Manager) refresh(ctx context.Context, s *Session, now time.Time) {
	log := logger.From(ctx).With(logger.Component("session.manager"), logger.Op("refresh"), logger.UserID(s.User.ID))

	if len(m.deps.StorageSecret) == 0 {
		// Config incompleta: dejar el token anterior (stale-but-valid) o
		// ninguno. Jamás emitir un token sin firmar, jamás tirar la sesión.
		log.Error("storage token secret not configured; keeping previous token")
		return
	}

	m.hydrate(ctx, s)

	tok, err := signStorageToken(s, m.deps.StorageSecret, now)
	if err != nil {
		log.Error("storage token signing failed; keeping previous token", logger.Err(err))
		return
	}
	s.StorageToken = tok

	raw, err := signPrimary(buildPrimaryClaims(s), m.deps.SessionSecret)
	if err != nil {
		log.Error("artifact re-sign failed; keeping previous artifact", logger.Err(err))
		return
	}
	s.Token = raw
	s.Refreshed = true
}

// hydrate refresca best-effort los campos de perfil desde el store, con
// timeout acotado. Fail-open: ante cualquier error se siguen usando las
// claims last-known-good del artefacto.
func (m *Manager) hydrate(ctx context.Context, s *Session) {
	if m.deps.Users == nil {
		return
	}
	hctx, cancel := context.WithTimeout(ctx, HydrateTimeout)
	defer cancel()

	u, err := m.deps.Users.GetByID(hctx, s.User.ID)
	if err != nil {
		logger.From(ctx).Debug("profile hydration failed, using token claims",
			logger.Component("session.manager"), logger.UserID(s.User.ID), logger.Err(err))
		return
	}
	s.User.Email = u.Email
	s.User.DisplayName = u.DisplayName
}

// attachStorageToken firma el storage token inicial en Issue. Mismo
// tratamiento degradado que refresh cuando falta el secret.
func (m *Manager) attachStorageToken(ctx context.Context, s *Session, now time.Time) {
	if len(m.deps.StorageSecret) == 0 {
		logger.From(ctx).Error("storage token secret not configured; issuing session without storage token",
			logger.Component("session.manager"))
		return
	}
	tok, err := signStorageToken(s, m.deps.StorageSecret, now)
	if err != nil {
		logger.From(ctx).Error("storage token signing failed; issuing session without storage token",
			logger.Component("session.manager"), logger.Err(err))
		return
	}
	s.StorageToken = tok
}
