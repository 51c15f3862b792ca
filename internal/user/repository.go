// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
)

const userColumns = `id, name, email, photo, role, password_hash,
	password_changed_at, reset_token_digest, reset_token_expires_at,
	active, created_at, updated_at`

// listSchema whitelists the user fields the admin list endpoint may
// filter, sort, and project on. The list pins active = TRUE, so
// "active" is deliberately not filterable; deactivated accounts stay
// reachable by id.
var listSchema = query.Schema{
	Columns: map[string]string{
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
	},
	Projection:  []string{"name", "email", "role", "createdAt"},
	DefaultSort: []query.Sort{{Field: "createdAt", Desc: true}},
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(
	ctx context.Context,
	name, email, passwordHash string,
) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		name, email, passwordHash,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

// GetByID returns an active user. Soft-deleted accounts behave as if
// they never existed.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND active = TRUE`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

// GetByEmail expects a normalized address; the lookup folds the stored
// column so rows written before normalization still match.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = $1 AND active = TRUE`,
		core.NormalizeEmail(email),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

func (r *Repository) List(
	ctx context.Context,
	opts query.Options,
) ([]User, error) {
	stmt, err := opts.Build(listSchema, []string{"active = TRUE"}, nil)
	if err != nil {
		return nil, err
	}

	// Always select the full row; projection is applied at the DTO
	// layer so the admin list keeps stable response keys.
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + stmt.Where
	if stmt.OrderBy != "" {
		q += " ORDER BY " + stmt.OrderBy
	}
	q += fmt.Sprintf(" LIMIT %d OFFSET %d", stmt.Limit, stmt.Offset)

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, q, stmt.Args...); err != nil {
		return nil, core.MapStorageError(err)
	}
	return users, nil
}

// UpdateProfile patches the caller-supplied fields. Nil pointers leave
// the stored value untouched.
func (r *Repository) UpdateProfile(
	ctx context.Context,
	id string,
	name, email, photo *string,
) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    photo = COALESCE($4, photo),
		    updated_at = now()
		WHERE id = $1 AND active = TRUE
		RETURNING `+userColumns,
		id, name, email, photo,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

func (r *Repository) AdminUpdate(
	ctx context.Context,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	addSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.Photo != nil {
		addSet("photo", *req.Photo)
	}
	if req.Role != nil {
		addSet("role", *req.Role)
	}
	if req.Active != nil {
		addSet("active", *req.Active)
	}

	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+userColumns,
		args...,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

// SoftDelete deactivates the account; the row stays for audit and the
// reviews it authored remain attributed.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET active = FALSE, updated_at = now()
		WHERE id = $1 AND active = TRUE`,
		id,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) HardDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SetPassword rotates the credential. password_changed_at is stamped one
// second in the past so a token issued in the same second stays valid.
func (r *Repository) SetPassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2,
		    password_changed_at = now() - interval '1 second',
		    reset_token_digest = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1 AND active = TRUE`,
		id, passwordHash,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SetPasswordHash swaps in a rehash of the same password. The
// credential itself did not change, so password_changed_at stays put
// and tokens issued before the swap remain valid.
func (r *Repository) SetPasswordHash(
	ctx context.Context,
	id, passwordHash string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2,
		    updated_at = now()
		WHERE id = $1 AND active = TRUE`,
		id, passwordHash,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) StoreResetDigest(
	ctx context.Context,
	id, digest string,
	expiresAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_digest = $2,
		    reset_token_expires_at = $3,
		    updated_at = now()
		WHERE id = $1 AND active = TRUE`,
		id, digest, expiresAt,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) GetByResetDigest(
	ctx context.Context,
	digest string,
) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_token_digest = $1
		  AND reset_token_expires_at > now()
		  AND active = TRUE`,
		digest,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &u, nil
}

func (r *Repository) ClearResetDigest(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_digest = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	return nil
}
