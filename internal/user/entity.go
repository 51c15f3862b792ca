// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// ValidRoles is the closed set an admin may assign.
var ValidRoles = []string{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

type User struct {
	ID                  uuid.UUID  `db:"id"`
	Name                string     `db:"name"`
	Email               string     `db:"email"`
	Photo               string     `db:"photo"`
	Role                string     `db:"role"`
	PasswordHash        string     `db:"password_hash"`
	PasswordChangedAt   *time.Time `db:"password_changed_at"`
	ResetTokenDigest    *string    `db:"reset_token_digest"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at"`
	Active              bool       `db:"active"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// ChangedPasswordAfter reports whether the password changed after the
// given instant. Comparison is at second granularity to match token
// issued-at timestamps.
func (u *User) ChangedPasswordAfter(t time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > t.Unix()
}
