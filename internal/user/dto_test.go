// AngelaMos | 2026
// dto_test.go

package user

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
)

func fakeUser(t *testing.T) *User {
	t.Helper()
	f := faker.New()

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         f.Person().Name(),
		Email:        f.Internet().Email(),
		Photo:        "default.jpg",
		Role:         RoleUser,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// The password hash must never serialize, whatever envelope the
// response ends up in.
func TestUserResponseOmitsPasswordHash(t *testing.T) {
	u := fakeUser(t)

	body, err := json.Marshal(ToResponse(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	lowered := strings.ToLower(string(body))
	if strings.Contains(lowered, "password") {
		t.Fatalf("password material leaked into response: %s", body)
	}
	if strings.Contains(string(body), u.PasswordHash) {
		t.Fatal("raw hash leaked into response")
	}
}

func TestUserResponseCarriesIdentity(t *testing.T) {
	u := fakeUser(t)
	resp := ToResponse(u)

	if resp.ID != u.ID.String() {
		t.Errorf("id mismatch: %q", resp.ID)
	}
	if resp.Email != u.Email || resp.Name != u.Name {
		t.Errorf("identity fields mismatch: %+v", resp)
	}
	if resp.Role != RoleUser {
		t.Errorf("expected role %q, got %q", RoleUser, resp.Role)
	}
}

func TestChangedPasswordAfter(t *testing.T) {
	u := fakeUser(t)

	issued := time.Now()
	if u.ChangedPasswordAfter(issued) {
		t.Fatal("user with no password change should never invalidate tokens")
	}

	changed := issued.Add(2 * time.Second)
	u.PasswordChangedAt = &changed
	if !u.ChangedPasswordAfter(issued) {
		t.Fatal("token issued before the change should be invalidated")
	}

	old := issued.Add(-time.Hour)
	u.PasswordChangedAt = &old
	if u.ChangedPasswordAfter(issued) {
		t.Fatal("token issued after the change should stay valid")
	}
}
