// Package token genera digests para keys opacas de cache.
package token

import (
	"crypto/sha256"
	"encoding/base64"
)

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
// Los identificadores sensibles nunca se usan en claro como key de
// cache: se guarda su digest.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
