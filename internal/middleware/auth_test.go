// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelamos/trailhead/internal/core"
)

type fakeVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return f.claims, f.err
}

type fakeResolver struct {
	account *Account
	err     error
}

func (f *fakeResolver) ResolveAccount(
	_ context.Context,
	_ string,
) (*Account, error) {
	return f.account, f.err
}

func protectedEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // test handler
		_ = json.NewEncoder(w).Encode(map[string]string{
			"userId": GetUserID(r.Context()),
			"role":   GetUserRole(r.Context()),
		})
	})
}

func callProtect(
	t *testing.T,
	verifier TokenVerifier,
	resolver AccountResolver,
	authHeader string,
) *httptest.ResponseRecorder {
	t.Helper()

	handler := Protect(verifier, resolver)(protectedEcho())
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validSetup(issuedAt time.Time) (*fakeVerifier, *fakeResolver) {
	verifier := &fakeVerifier{
		claims: &AccessTokenClaims{
			UserID:   "user-1",
			Role:     "user",
			IssuedAt: issuedAt,
		},
	}
	resolver := &fakeResolver{
		account: &Account{ID: "user-1", Role: "user"},
	}
	return verifier, resolver
}

func TestProtectRejectsMissingToken(t *testing.T) {
	verifier, resolver := validSetup(time.Now())

	rec := callProtect(t, verifier, resolver, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProtectRejectsMalformedHeader(t *testing.T) {
	verifier, resolver := validSetup(time.Now())

	rec := callProtect(t, verifier, resolver, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProtectRejectsExpiredToken(t *testing.T) {
	verifier := &fakeVerifier{err: core.ErrTokenExpired}
	resolver := &fakeResolver{}

	rec := callProtect(t, verifier, resolver, "Bearer expired")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "your token has expired, please log in again" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestProtectRejectsDeletedAccount(t *testing.T) {
	verifier, _ := validSetup(time.Now())
	resolver := &fakeResolver{err: core.ErrNotFound}

	rec := callProtect(t, verifier, resolver, "Bearer valid")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProtectRejectsTokenOlderThanPasswordChange(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	verifier, resolver := validSetup(issuedAt)
	changed := issuedAt.Add(30 * time.Minute)
	resolver.account.PasswordChangedAt = &changed

	rec := callProtect(t, verifier, resolver, "Bearer stale")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token predating password change, got %d",
			rec.Code)
	}
}

func TestProtectAllowsTokenNewerThanPasswordChange(t *testing.T) {
	issuedAt := time.Now()
	verifier, resolver := validSetup(issuedAt)
	changed := issuedAt.Add(-time.Hour)
	resolver.account.PasswordChangedAt = &changed

	rec := callProtect(t, verifier, resolver, "Bearer fresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectAttachesIdentity(t *testing.T) {
	verifier, resolver := validSetup(time.Now())

	rec := callProtect(t, verifier, resolver, "Bearer valid")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["userId"] != "user-1" || body["role"] != "user" {
		t.Fatalf("identity not attached: %v", body)
	}
}

func requireRoleRequest(role string, allowed ...string) *httptest.ResponseRecorder {
	handler := RequireRole(allowed...)(protectedEcho())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if role != "" {
		ctx := context.WithValue(req.Context(), UserIDKey, "user-1")
		ctx = context.WithValue(ctx, UserRoleKey, role)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoleAllowsMember(t *testing.T) {
	rec := requireRoleRequest("admin", "admin", "lead-guide")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsNonMember(t *testing.T) {
	rec := requireRoleRequest("user", "admin", "lead-guide")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	rec := requireRoleRequest("", "admin")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := ExtractToken(req); got != "abc.def.ghi" {
		t.Fatalf("expected token, got %q", got)
	}

	req.Header.Set("Authorization", "Basic dXNlcg==")
	if got := ExtractToken(req); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}
}
