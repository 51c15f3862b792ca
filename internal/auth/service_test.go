// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/angelamos/trailhead/internal/core"
)

type fakeUserStore struct {
	byEmail map[string]*Credentials

	lookupEmails  []string
	createdEmail  string
	rehashUserID  string
	rehashNewHash string
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (*Credentials, error) {
	f.createdEmail = email
	return &Credentials{ID: "u-new", Name: name, Email: email, Role: "user", PasswordHash: passwordHash}, nil
}

func (f *fakeUserStore) CredentialsByEmail(_ context.Context, email string) (*Credentials, error) {
	f.lookupEmails = append(f.lookupEmails, email)
	creds, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return creds, nil
}

func (f *fakeUserStore) CredentialsByID(context.Context, string) (*Credentials, error) {
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) SetPassword(context.Context, string, string) error { return nil }

func (f *fakeUserStore) SetPasswordHash(_ context.Context, userID, passwordHash string) error {
	f.rehashUserID = userID
	f.rehashNewHash = passwordHash
	return nil
}

func (f *fakeUserStore) StoreResetDigest(context.Context, string, string, time.Time) error {
	return nil
}

func (f *fakeUserStore) CredentialsByResetDigest(context.Context, string) (*Credentials, error) {
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) ClearResetDigest(context.Context, string) error { return nil }

type noopMailer struct{}

func (noopMailer) SendPasswordReset(context.Context, string, string, string) error { return nil }

func testService(t *testing.T, store *fakeUserStore) *Service {
	t.Helper()

	manager, err := NewJWTManager(testJWTConfig(t, time.Hour))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, manager, noopMailer{}, "http://localhost:8080", logger)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

// staleHash builds a valid hash with weaker cost parameters than the
// current defaults, as left behind by an older deployment.
func staleHash(t *testing.T, password string) string {
	t.Helper()

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	const (
		memory  = 16 * 1024
		passes  = 2
		threads = 1
		keyLen  = 32
	)
	hash := argon2.IDKey([]byte(password), salt, passes, memory, threads, keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		passes,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

func unauthorizedMessage(t *testing.T, err error) string {
	t.Helper()

	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.HTTPStatus != 401 {
		t.Fatalf("expected 401, got %d", appErr.HTTPStatus)
	}
	return appErr.Message
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*Credentials{
		"a@x.com": {ID: "u-1", Email: "a@x.com", Role: "user", PasswordHash: mustHash(t, "correct-horse")},
	}}
	svc := testService(t, store)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{
		Email:    "a@x.com",
		Password: "battery-staple",
	})
	_, unknownEmail := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@x.com",
		Password: "battery-staple",
	})

	wrongMsg := unauthorizedMessage(t, wrongPassword)
	unknownMsg := unauthorizedMessage(t, unknownEmail)
	if wrongMsg != unknownMsg {
		t.Fatalf("failure messages differ: %q vs %q", wrongMsg, unknownMsg)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*Credentials{
		"a@x.com": {ID: "u-1", Email: "a@x.com", Role: "user", PasswordHash: mustHash(t, "correct-horse")},
	}}
	svc := testService(t, store)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  A@X.Com ",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login with mixed-case email: %v", err)
	}
	if result.User.ID != "u-1" {
		t.Fatalf("resolved wrong account: %q", result.User.ID)
	}
	if got := store.lookupEmails[0]; got != "a@x.com" {
		t.Fatalf("lookup used %q, want normalized a@x.com", got)
	}
}

func TestSignupNormalizesEmail(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*Credentials{}}
	svc := testService(t, store)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name:            "Ada",
		Email:           "Ada@Example.COM",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if store.createdEmail != "ada@example.com" {
		t.Fatalf("stored %q, want ada@example.com", store.createdEmail)
	}
}

func TestLoginUpgradesStaleHash(t *testing.T) {
	old := staleHash(t, "correct-horse")
	store := &fakeUserStore{byEmail: map[string]*Credentials{
		"a@x.com": {ID: "u-1", Email: "a@x.com", Role: "user", PasswordHash: old},
	}}
	svc := testService(t, store)

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "a@x.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("login with stale hash: %v", err)
	}

	if store.rehashUserID != "u-1" || store.rehashNewHash == "" {
		t.Fatal("expected the stale hash to be rewritten on login")
	}
	if store.rehashNewHash == old {
		t.Fatal("rehash produced the same encoded hash")
	}
	match, err := core.VerifyPassword("correct-horse", store.rehashNewHash)
	if err != nil || !match {
		t.Fatalf("new hash does not verify: match=%v err=%v", match, err)
	}
}

func TestLoginCurrentHashNotRewritten(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*Credentials{
		"a@x.com": {ID: "u-1", Email: "a@x.com", Role: "user", PasswordHash: mustHash(t, "correct-horse")},
	}}
	svc := testService(t, store)

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "a@x.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if store.rehashUserID != "" {
		t.Fatal("hash with current parameters must not be rewritten")
	}
}
