package repository

import "errors"

// Errores comunes de repositorios.
var (
	// ErrNotFound indica que el registro no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict indica violación de unicidad (email/username duplicado).
	ErrConflict = errors.New("repository: conflict")
)
