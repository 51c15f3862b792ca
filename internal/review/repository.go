// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
)

const reviewColumns = `r.id, r.review, r.rating, r.tour_id, r.user_id,
	r.created_at, r.updated_at,
	COALESCE(u.name, '') AS author_name,
	COALESCE(u.photo, '') AS author_photo`

const reviewFrom = ` FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id AND u.active = TRUE`

var listSchema = query.Schema{
	Columns: map[string]string{
		"rating":    "r.rating",
		"tour":      "r.tour_id",
		"user":      "r.user_id",
		"createdAt": "r.created_at",
	},
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
	tourID, userID, text string,
	rating int,
) (*Review, error) {
	var id string
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO reviews (review, rating, tour_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		text, rating, tourID, userID,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.NewAppError(
				core.ErrDuplicateKey,
				"you have already reviewed this tour",
				http.StatusBadRequest,
				"duplicate_review",
			)
		}
		return nil, core.MapStorageError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Review, error) {
	var rev Review
	err := r.db.GetContext(ctx, &rev,
		`SELECT `+reviewColumns+reviewFrom+` WHERE r.id = $1`, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}
	return &rev, nil
}

func (r *Repository) List(ctx context.Context, opts query.Options) ([]Review, error) {
	stmt, err := opts.Build(listSchema, nil, nil)
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + reviewColumns + reviewFrom
	if stmt.Where != "" {
		q += " WHERE " + stmt.Where
	}
	if stmt.OrderBy != "" {
		q += " ORDER BY " + stmt.OrderBy
	}
	q += fmt.Sprintf(" LIMIT %d OFFSET %d", stmt.Limit, stmt.Offset)

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, q, stmt.Args...); err != nil {
		return nil, core.MapStorageError(err)
	}
	return reviews, nil
}

func (r *Repository) ListByTour(ctx context.Context, tourID string) ([]Review, error) {
	reviews := []Review{}
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT `+reviewColumns+reviewFrom+`
		WHERE r.tour_id = $1
		ORDER BY r.created_at DESC`,
		tourID,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return reviews, nil
}

func (r *Repository) Update(
	ctx context.Context,
	id string,
	req UpdateReviewRequest,
) (*Review, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	if req.Review != nil {
		args = append(args, *req.Review)
		sets = append(sets, fmt.Sprintf("review = $%d", len(args)))
	}
	if req.Rating != nil {
		args = append(args, *req.Rating)
		sets = append(sets, fmt.Sprintf("rating = $%d", len(args)))
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE reviews
		SET `+strings.Join(sets, ", ")+`
		WHERE id = $1`,
		args...,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Aggregate returns the review count and mean rating for one tour.
// avg is meaningless when count is zero; callers apply the default.
func (r *Repository) Aggregate(
	ctx context.Context,
	tourID string,
) (count int, avg float64, err error) {
	row := struct {
		Count int     `db:"count"`
		Avg   float64 `db:"avg"`
	}{}
	err = r.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS count,
		       COALESCE(AVG(rating), 0) AS avg
		FROM reviews
		WHERE tour_id = $1`,
		tourID,
	)
	if err != nil {
		return 0, 0, core.MapStorageError(err)
	}
	return row.Count, row.Avg, nil
}
