package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
	"github.com/dropDatabas3/helmsman/internal/session"
	"github.com/dropDatabas3/helmsman/internal/tenancy"
)

const testCookieName = "helmsman_session"

func testManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(session.ManagerDeps{
		SessionSecret: []byte("middleware-test-secret"),
	})
}

func crewUser(yachtID string) *repository.User {
	return &repository.User{
		ID:      "u-crew",
		Email:   "crew@demo.local",
		Role:    repository.RoleCrew,
		YachtID: &yachtID,
		Active:  true,
	}
}

func adminUser() *repository.User {
	return &repository.User{
		ID:     "u-admin",
		Email:  "root@demo.local",
		Role:   repository.RoleAdmin,
		Active: true,
	}
}

func issueToken(t *testing.T, mgr *session.Manager, u *repository.User) string {
	t.Helper()
	s, err := mgr.Issue(context.Background(), u, false)
	require.NoError(t, err)
	return s.Token
}

// serve pasa el request por los middlewares dados y captura el contexto
// que llega al handler final.
func serve(t *testing.T, req *http.Request, mws []Middleware) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	var got context.Context
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context()
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	Chain(final, mws...).ServeHTTP(rec, req)
	return rec, got
}

func TestWithSessionResolvesCookie(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, crewUser("yacht-1"))

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	rec, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil)})
	require.Equal(t, http.StatusOK, rec.Code)

	s := session.FromContext(ctx)
	require.NotNil(t, s)
	require.Equal(t, "u-crew", s.User.ID)
	require.Equal(t, "yacht-1", s.YachtID())
}

func TestWithSessionBearerFallback(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, adminUser())

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	_, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil)})
	s := session.FromContext(ctx)
	require.NotNil(t, s)
	require.Equal(t, "u-admin", s.User.ID)
}

func TestWithSessionGarbageIsAnonymous(t *testing.T) {
	mgr := testManager(t)

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "not-a-token"})

	rec, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil)})
	// El pipeline no corta: el request sigue como anónimo.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, session.FromContext(ctx))
}

func TestRequireSessionRejectsAnonymous(t *testing.T) {
	mgr := testManager(t)

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	rec, _ := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), RequireSession()})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithScopeBoundUser(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, crewUser("yacht-1"))

	req := httptest.NewRequest("GET", "/v1/admin/yachts/x/gate", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	rec, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), WithScope()})
	require.Equal(t, http.StatusOK, rec.Code)

	scope, ok := ScopeFrom(ctx)
	require.True(t, ok)
	require.Equal(t, tenancy.Scoped{YachtID: "yacht-1"}, scope)
}

func TestWithScopeNonAdminOverrideIgnored(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, crewUser("yacht-1"))

	req := httptest.NewRequest("GET", "/v1/things?yacht_id=yacht-2", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	_, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), WithScope()})
	scope, ok := ScopeFrom(ctx)
	require.True(t, ok)
	// El yacht propio gana siempre: el query param no mueve la aguja.
	require.Equal(t, tenancy.Scoped{YachtID: "yacht-1"}, scope)
}

func TestWithScopeAdminUnscoped(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, adminUser())

	req := httptest.NewRequest("GET", "/v1/things", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	_, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), WithScope()})
	scope, ok := ScopeFrom(ctx)
	require.True(t, ok)
	require.Equal(t, tenancy.Unscoped{}, scope)
	require.True(t, ActingAdmin(ctx))
}

func TestWithScopeAdminCoercionDropsAdminCaps(t *testing.T) {
	mgr := testManager(t)
	tok := issueToken(t, mgr, adminUser())

	req := httptest.NewRequest("GET", "/v1/things?yacht_id=yacht-9", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	_, ctx := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), WithScope()})
	scope, ok := ScopeFrom(ctx)
	require.True(t, ok)
	require.Equal(t, tenancy.Scoped{YachtID: "yacht-9"}, scope)
	require.False(t, ActingAdmin(ctx))
}

func TestWithScopeUnboundNonAdminFails(t *testing.T) {
	mgr := testManager(t)
	u := &repository.User{ID: "u-lost", Email: "lost@demo.local", Role: repository.RoleOwner, Active: true}
	tok := issueToken(t, mgr, u)

	req := httptest.NewRequest("GET", "/v1/things", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

	rec, _ := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), WithScope()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	mgr := testManager(t)

	cases := []struct {
		name   string
		user   *repository.User
		target string
		want   int
	}{
		{"admin sin coerción pasa", adminUser(), "/v1/admin/x", http.StatusOK},
		{"admin coercionado es rechazado", adminUser(), "/v1/admin/x?yacht_id=yacht-3", http.StatusForbidden},
		{"no-admin es rechazado", crewUser("yacht-1"), "/v1/admin/x", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := issueToken(t, mgr, tc.user)
			req := httptest.NewRequest("GET", tc.target, nil)
			req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})

			rec, _ := serve(t, req, []Middleware{
				WithSession(mgr, testCookieName, nil),
				WithScope(),
				RequireAdmin(),
			})
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireAdminAnonymous(t *testing.T) {
	mgr := testManager(t)
	req := httptest.NewRequest("GET", "/v1/admin/x", nil)
	rec, _ := serve(t, req, []Middleware{WithSession(mgr, testCookieName, nil), RequireAdmin()})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
