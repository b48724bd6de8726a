package repository

import (
	"context"
	"time"
)

// Role es el rol de un usuario dentro de la plataforma.
type Role string

const (
	// RoleCrew es un miembro regular de la tripulación de un yacht.
	RoleCrew Role = "crew"
	// RoleCaptain administra operaciones dentro de su yacht.
	RoleCaptain Role = "captain"
	// RoleOwner es el dueño de un yacht. Privilegiado dentro del tenant,
	// pero sigue siendo un rol tenant-local.
	RoleOwner Role = "owner"
	// RoleAdmin es el único rol con acceso cross-tenant (admin de plataforma).
	RoleAdmin Role = "admin"
)

// Valid reporta si el rol pertenece al vocabulario conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleCrew, RoleCaptain, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// User representa una identidad autenticable.
// YachtID es nil para admins de plataforma (no están atados a un tenant).
type User struct {
	ID           string
	Email        string
	Username     string
	DisplayName  string
	Role         Role
	YachtID      *string
	Permissions  []string
	PasswordHash string
	Active       bool
	// ImpersonatedBy se setea solo en la identidad resultante de una
	// impersonación exitosa; nunca se persiste en la tabla de usuarios.
	ImpersonatedBy string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserRepository define operaciones de lectura sobre usuarios.
// El core de sesión/tenancy nunca muta usuarios.
type UserRepository interface {
	// GetByEmail busca un usuario por email (normalizado lowercase).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername busca un usuario por username.
	// Retorna ErrNotFound si no existe.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID busca un usuario por su ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)
}
