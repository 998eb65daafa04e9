package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/palletline/wms-backend/pkg/auth"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/enums"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "wms-test",
	ExpirationMinutes: 30,
}

type allowAllSessions struct{}

func (allowAllSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type denyAllSessions struct{}

func (denyAllSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return false, nil
}

func TestAuthMissingHeader(t *testing.T) {
	rec := runAuth(t, "", allowAllSessions{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	assertErrorEnvelope(t, rec)
}

func TestAuthMalformedToken(t *testing.T) {
	rec := runAuth(t, "Bearer not-a-jwt", allowAllSessions{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthWrongSecret(t *testing.T) {
	other := testJWT
	other.Secret = "different-secret"
	token := mintToken(t, other)

	rec := runAuth(t, "Bearer "+token, allowAllSessions{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRevokedSession(t *testing.T) {
	token := mintToken(t, testJWT)

	rec := runAuth(t, "Bearer "+token, denyAllSessions{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session got %d", rec.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	token := mintTokenFor(t, testJWT, userID, enums.UserRoleAdmin)

	var gotUserID, gotRole, gotSession string
	handler := Auth(testJWT, allowAllSessions{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if gotUserID != userID.String() {
		t.Fatalf("expected user id %s got %q", userID, gotUserID)
	}
	if gotRole != enums.UserRoleAdmin.String() {
		t.Fatalf("expected admin role got %q", gotRole)
	}
	if gotSession == "" {
		t.Fatal("expected session id in context")
	}
}

func TestRequireAdminBlocksStaff(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithRole(req.Context(), enums.UserRoleStaff.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireAdminAllowsAdminAndSuperAdmin(t *testing.T) {
	for _, role := range []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleSuperAdmin} {
		handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req = req.WithContext(WithRole(req.Context(), role.String()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected %s to pass, got %d", role, rec.Code)
		}
	}
}

func runAuth(t *testing.T, authorization string, sessions interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}) *httptest.ResponseRecorder {
	t.Helper()
	handler := Auth(testJWT, sessions, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func mintToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	return mintTokenFor(t, cfg, uuid.New(), enums.UserRoleStaff)
}

func mintTokenFor(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		Name:   "Jess Ops",
		Email:  "jess@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func assertErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if _, ok := payload["error"]; !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}
