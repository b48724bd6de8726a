package session

import "context"

type ctxKey struct{}

// WithContext inyecta la sesión resuelta en el contexto del request.
// El middleware la resuelve exactamente una vez por request; todo el
// resto del pipeline la lee con FromContext. No hay estado compartido
// entre requests.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retorna la sesión del request, o nil si el request es
// anónimo (o el middleware no corrió).
func FromContext(ctx context.Context) *Session {
	if v := ctx.Value(ctxKey{}); v != nil {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
