package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/helmsman/internal/session"
)

// CookiePolicy parametriza la cookie de sesión.
type CookiePolicy struct {
	Name     string
	Domain   string
	SameSite string // "", "lax", "strict", "none"
	Secure   bool
}

// parseSameSite acepta "", "lax", "strict", "none" (case-insensitive). Default Lax.
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// BuildSessionCookie arma la cookie HTTP-only del artefacto de sesión.
// Sin remember-me es una cookie de browser-session (sin Max-Age): la
// persistencia real la da el exp del token, no la cookie. Con remember-me
// se agrega Max-Age para sobrevivir reinicios del browser.
func (p CookiePolicy) BuildSessionCookie(s *session.Session) *http.Cookie {
	c := &http.Cookie{
		Name:     p.Name,
		Value:    s.Token,
		Path:     "/",
		Secure:   p.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(p.SameSite),
	}
	if p.Domain != "" {
		c.Domain = p.Domain
	}
	if s.RememberMe {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	return c
}

// BuildDeletionCookie sobreescribe la cookie para "borrar" la sesión del browser.
func (p CookiePolicy) BuildDeletionCookie() *http.Cookie {
	c := &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   p.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(p.SameSite),
	}
	if p.Domain != "" {
		c.Domain = p.Domain
	}
	return c
}
