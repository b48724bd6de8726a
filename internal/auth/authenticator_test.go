package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dropDatabas3/helmsman/internal/cache"
	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/security/password"
)

type fakeUsers struct {
	byEmail    map[string]*repository.User
	byUsername map[string]*repository.User
	byID       map[string]*repository.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*repository.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func strptr(s string) *string { return &s }

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	// Parámetros livianos: el test no mide resistencia a fuerza bruta.
	h, err := password.Hash(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func newFixture(t *testing.T) (*Authenticator, *fakeUsers, cache.Client) {
	t.Helper()
	users := &fakeUsers{
		byEmail:    map[string]*repository.User{},
		byUsername: map[string]*repository.User{},
		byID:       map[string]*repository.User{},
	}
	c := cache.NewMemory("test")
	return New(Deps{Users: users, Cache: c}), users, c
}

func addUser(f *fakeUsers, u *repository.User) {
	if u.Email != "" {
		f.byEmail[u.Email] = u
	}
	if u.Username != "" {
		f.byUsername[u.Username] = u
	}
	f.byID[u.ID] = u
}

func TestAuthenticate_ByEmailThenUsername(t *testing.T) {
	a, users, _ := newFixture(t)
	hash := mustHash(t, "hunter22")
	addUser(users, &repository.User{
		ID: "u1", Email: "deck@example.com", Username: "deckhand",
		Role: repository.RoleCrew, YachtID: strptr("yacht-A"),
		PasswordHash: hash, Active: true,
	})
	ctx := context.Background()

	if _, err := a.Authenticate(ctx, "deck@example.com", "hunter22"); err != nil {
		t.Fatalf("email login: %v", err)
	}
	// Fallback a username cuando el email no matchea.
	if _, err := a.Authenticate(ctx, "deckhand", "hunter22"); err != nil {
		t.Fatalf("username login: %v", err)
	}
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	a, users, _ := newFixture(t)
	addUser(users, &repository.User{
		ID: "u1", Email: "deck@example.com",
		PasswordHash: mustHash(t, "hunter22"), Active: true,
	})
	addUser(users, &repository.User{
		ID: "u2", Email: "retired@example.com",
		PasswordHash: mustHash(t, "hunter22"), Active: false,
	})
	ctx := context.Background()

	// No encontrado, inactivo, y password incorrecto: todos la misma señal.
	cases := []struct{ identifier, secret string }{
		{"nobody@example.com", "hunter22"},
		{"retired@example.com", "hunter22"},
		{"deck@example.com", "wrong-password"},
		{"", "hunter22"},
		{"deck@example.com", ""},
	}
	for _, c := range cases {
		_, err := a.Authenticate(ctx, c.identifier, c.secret)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("(%q,%q): expected ErrInvalidCredentials, got %v", c.identifier, c.secret, err)
		}
	}
}

func TestAuthenticate_NeverMutates(t *testing.T) {
	a, users, _ := newFixture(t)
	u := &repository.User{ID: "u1", Email: "deck@example.com", PasswordHash: mustHash(t, "pw-pw-pw"), Active: true}
	addUser(users, u)

	beforeHash, beforeActive := u.PasswordHash, u.Active
	_, _ = a.Authenticate(context.Background(), "deck@example.com", "pw-pw-pw")
	if u.PasswordHash != beforeHash || u.Active != beforeActive {
		t.Fatal("authenticate must not mutate stored identity state")
	}
}

func TestStartImpersonation_RequiresPlatformAdmin(t *testing.T) {
	a, _, _ := newFixture(t)
	ctx := context.Background()

	owner := &repository.User{ID: "o1", Role: repository.RoleOwner, YachtID: strptr("yacht-A"), Active: true}
	if err := a.StartImpersonation(ctx, owner, "t1"); !errors.Is(err, ErrNotPlatformAdmin) {
		t.Fatalf("owner must not start impersonation, got %v", err)
	}

	admin := &repository.User{ID: "a1", Role: repository.RoleAdmin, Active: true}
	if err := a.StartImpersonation(ctx, admin, "t1"); err != nil {
		t.Fatalf("admin start: %v", err)
	}
}

// TestImpersonation_PreconditionMatrix enumera las 2^4 combinaciones de
// precondiciones y verifica que solo all-true otorga acceso.
func TestImpersonation_PreconditionMatrix(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		markerPresent := mask&1 != 0
		adminElevated := mask&2 != 0
		adminActive := mask&4 != 0
		targetActive := mask&8 != 0

		name := fmt.Sprintf("marker=%t_elevated=%t_adminActive=%t_targetActive=%t",
			markerPresent, adminElevated, adminActive, targetActive)
		t.Run(name, func(t *testing.T) {
			a, users, c := newFixture(t)
			ctx := context.Background()

			role := repository.RoleOwner
			if adminElevated {
				role = repository.RoleAdmin
			}
			admin := &repository.User{ID: "admin-1", Role: role, Active: adminActive}
			target := &repository.User{
				ID: "target-1", Role: repository.RoleCrew,
				YachtID: strptr("yacht-A"), Active: targetActive,
			}
			addUser(users, admin)
			addUser(users, target)

			if markerPresent {
				// Marker directo al cache, sin pasar por StartImpersonation,
				// para poder combinarlo con un admin degradado.
				if err := c.Set(ctx, markerKey("target-1"), "admin-1", 0); err != nil {
					t.Fatalf("set marker: %v", err)
				}
			}

			got, err := a.AuthenticateImpersonation(ctx, "target-1")
			allTrue := markerPresent && adminElevated && adminActive && targetActive
			if allTrue {
				if err != nil {
					t.Fatalf("all preconditions hold, expected grant, got %v", err)
				}
				if got.ID != "target-1" || got.ImpersonatedBy != "admin-1" {
					t.Fatalf("wrong identity: %+v", got)
				}
			} else {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("expected uniform denial, got %v", err)
				}
			}
		})
	}
}

func TestImpersonation_MarkerSingleUse(t *testing.T) {
	a, users, _ := newFixture(t)
	ctx := context.Background()

	admin := &repository.User{ID: "admin-1", Role: repository.RoleAdmin, Active: true}
	target := &repository.User{ID: "target-1", Role: repository.RoleCrew, YachtID: strptr("yacht-A"), Active: true}
	addUser(users, admin)
	addUser(users, target)

	if err := a.StartImpersonation(ctx, admin, "target-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := a.AuthenticateImpersonation(ctx, "target-1"); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	if _, err := a.AuthenticateImpersonation(ctx, "target-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("marker must be single use, got %v", err)
	}
}

func TestImpersonation_MarkerKeyIsDigest(t *testing.T) {
	a, users, c := newFixture(t)
	ctx := context.Background()

	admin := &repository.User{ID: "admin-1", Role: repository.RoleAdmin, Active: true}
	addUser(users, admin)

	if err := a.StartImpersonation(ctx, admin, "target-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// El ID del target nunca aparece en claro como key del backend.
	if _, err := c.Get(ctx, "impersonate:marker:target-1"); !cache.IsNotFound(err) {
		t.Fatalf("marker stored under plaintext target id: %v", err)
	}
	if got, err := c.Get(ctx, markerKey("target-1")); err != nil || got != "admin-1" {
		t.Fatalf("marker missing under digest key: got=%q err=%v", got, err)
	}
}

func TestImpersonation_TargetMissing(t *testing.T) {
	a, users, c := newFixture(t)
	ctx := context.Background()

	admin := &repository.User{ID: "admin-1", Role: repository.RoleAdmin, Active: true}
	addUser(users, admin)
	_ = c.Set(ctx, markerKey("ghost"), "admin-1", 0)

	if _, err := a.AuthenticateImpersonation(ctx, "ghost"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("missing target must deny, got %v", err)
	}
}
