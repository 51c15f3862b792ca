// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/angelamos/trailhead/internal/core"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID   string
	Role     string
	IssuedAt time.Time
}

// Account is the authenticated identity as it exists right now, not as it
// existed when the token was signed.
type Account struct {
	ID                string
	Role              string
	PasswordChangedAt *time.Time
}

// AccountResolver loads the token's subject. Implementations return
// core.ErrNotFound for accounts that no longer exist or were deactivated.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, id string) (*Account, error)
}

// Protect verifies the bearer token and resolves it to a live account. A
// token signed before the account's last password change is rejected: the
// invalidation is a timestamp comparison, not a revocation list.
func Protect(
	verifier TokenVerifier,
	resolver AccountResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("you are not logged in, please log in to get access"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			account, err := resolver.ResolveAccount(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.UnauthorizedError(
						"the user belonging to this token no longer exists",
					))
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if changedAfter(account.PasswordChangedAt, claims.IssuedAt) {
				core.JSONError(w, core.UnauthorizedError(
					"password was changed recently, please log in again",
				))
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, account.ID)
			ctx = context.WithValue(ctx, UserRoleKey, account.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func changedAfter(passwordChangedAt *time.Time, issuedAt time.Time) bool {
	if passwordChangedAt == nil {
		return false
	}
	return passwordChangedAt.Unix() > issuedAt.Unix()
}

// RequireRole gates a route to a fixed set of roles. Pure membership check
// against the identity Protect attached; no I/O.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("you do not have permission to perform this action"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
