package session

import (
	"encoding/json"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

// Claims del artefacto primario. yacht_id viaja duplicado como tenant_id
// por compatibilidad con consumidores viejos.
const (
	claimEmail          = "email"
	claimName           = "name"
	claimRole           = "role"
	claimYachtID        = "yacht_id"
	claimTenantIDLegacy = "tenant_id"
	claimPerms          = "perms"
	claimImpersonatedBy = "impersonated_by"
	claimRemember       = "remember"
	claimStorageToken   = "storage_token"
)

var errInvalidArtifact = errors.New("session: invalid artifact")

// buildPrimaryClaims arma las claims del artefacto a partir de la sesión.
func buildPrimaryClaims(s *Session) jwtv5.MapClaims {
	perms, _ := json.Marshal(s.User.Permissions)

	claims := jwtv5.MapClaims{
		"sub":      s.User.ID,
		claimEmail: s.User.Email,
		claimName:  s.User.DisplayName,
		claimRole:  string(s.User.Role),
		claimPerms: string(perms),
		"iat":      s.IssuedAt.Unix(),
		"exp":      s.ExpiresAt.Unix(),
	}
	if yid := s.YachtID(); yid != "" {
		claims[claimYachtID] = yid
		claims[claimTenantIDLegacy] = yid
	}
	if s.RememberMe {
		claims[claimRemember] = true
	}
	if s.ImpersonatedBy != "" {
		claims[claimImpersonatedBy] = s.ImpersonatedBy
	}
	if s.StorageToken != "" {
		claims[claimStorageToken] = s.StorageToken
	}
	return claims
}

// signPrimary firma las claims con HS256.
func signPrimary(claims jwtv5.MapClaims, secret []byte) (string, error) {
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	return tk.SignedString(secret)
}

// parsePrimary valida firma y claims del artefacto. Fail closed: cualquier
// error de decode invalida la sesión entera, aunque campos individuales
// estén bien formados. La validación de exp la hace el Manager (para poder
// distinguir "expirada" de "rota" en logs).
func parsePrimary(raw string, secret []byte) (jwtv5.MapClaims, error) {
	tok, err := jwtv5.Parse(raw,
		func(*jwtv5.Token) (any, error) { return secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		// exp se chequea a mano contra el reloj del Manager.
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return nil, errInvalidArtifact
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, errInvalidArtifact
	}
	return claims, nil
}

// sessionFromClaims reconstruye la sesión desde claims validadas.
func sessionFromClaims(claims jwtv5.MapClaims) (*Session, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errInvalidArtifact
	}

	s := &Session{
		User: repository.User{
			ID:          sub,
			Email:       str(claims, claimEmail),
			DisplayName: str(claims, claimName),
			Role:        repository.Role(str(claims, claimRole)),
			Active:      true,
		},
	}
	if yid := str(claims, claimYachtID); yid != "" {
		s.User.YachtID = &yid
	} else if yid := str(claims, claimTenantIDLegacy); yid != "" {
		// Artefactos viejos solo traen el alias legacy.
		s.User.YachtID = &yid
	}
	if raw := str(claims, claimPerms); raw != "" {
		var perms []string
		if json.Unmarshal([]byte(raw), &perms) == nil {
			s.User.Permissions = perms
		}
	}
	s.ImpersonatedBy = str(claims, claimImpersonatedBy)
	s.User.ImpersonatedBy = s.ImpersonatedBy
	if rem, _ := claims[claimRemember].(bool); rem {
		s.RememberMe = true
	}
	s.StorageToken = str(claims, claimStorageToken)

	if iat, ok := numTime(claims, "iat"); ok {
		s.IssuedAt = iat
	}
	if exp, ok := numTime(claims, "exp"); ok {
		s.ExpiresAt = exp
	}
	return s, nil
}

func str(claims jwtv5.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func numTime(claims jwtv5.MapClaims, key string) (time.Time, bool) {
	switch v := claims[key].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}
