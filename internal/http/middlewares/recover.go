package middlewares

import (
	"fmt"
	"net/http"

	httpErrors "github.com/dropDatabas3/helmsman/internal/http/errors"
	"github.com/dropDatabas3/helmsman/internal/observability/logger"
)

// WithRecover captura panics y devuelve un 500 en lugar de crashear.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Op("recover"),
						logger.String("panic", fmt.Sprintf("%v", rec)),
					)
					httpErrors.WriteError(w, httpErrors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
