package session

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// signStorageToken firma el token derivado que consume el servicio externo
// de storage. Sus reglas row-level se apoyan en el yacht_id de los metadata.
// Firmar es puro e idempotente-enough: dos refreshes concurrentes de la
// misma sesión producen tokens equivalentes (mismas claims, exp trivialmente
// distinto); no agregar acá ningún efecto no idempotente.
func signStorageToken(s *Session, secret []byte, now time.Time) (string, error) {
	claims := jwtv5.MapClaims{
		"aud":   "authenticated",
		"role":  "authenticated",
		"sub":   StorageSubjectID(s.User.ID),
		"email": s.User.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(StorageTokenTTL).Unix(),
		"user_metadata": map[string]any{
			"display_name": s.User.DisplayName,
			"yacht_id":     s.YachtID(),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	return tk.SignedString(secret)
}

// storageTokenExpiry lee el exp de un storage token previamente emitido.
// ok=false si el token no parsea o no trae exp: el caller lo trata como
// ausente y regenera.
func storageTokenExpiry(raw string, secret []byte) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	tok, err := jwtv5.Parse(raw,
		func(*jwtv5.Token) (any, error) { return secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return time.Time{}, false
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return time.Time{}, false
	}
	return numTime(claims, "exp")
}
