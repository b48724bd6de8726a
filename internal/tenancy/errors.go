package tenancy

import "errors"

var (
	// ErrYachtRequired: identidad no-admin sin yacht intentó una query scoped.
	// Se propaga hasta un 400; un sistema sano nunca debería llegar acá.
	// Fallar fuerte es intencional: un caller que olvide manejarlo va a dar
	// 500 en vez de filtrar datos de otro tenant.
	ErrYachtRequired = errors.New("tenancy: identity has no yacht and is not a platform admin")

	// ErrYachtMismatch: el recurso pertenece a otro yacht que el scope del caller.
	ErrYachtMismatch = errors.New("tenancy: resource belongs to a different yacht")
)
