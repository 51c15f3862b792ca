// AngelaMos | 2026
// repository.go

package tour

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

const tourColumns = `id, name, slug, duration, max_group_size, difficulty,
	ratings_average, ratings_quantity, price, price_discount, summary,
	description, image_cover, images, start_location, locations, secret,
	created_at, updated_at`

// Earth radii used for spherical distance, matching the unit the client
// asked for.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKM    = 6378.1
)

// sphericalDistance computes great-circle distance from a reference
// point to each tour's start location, in the unit of the bound radius.
// LEAST clamps float drift before acos.
const sphericalDistance = `$%d * acos(LEAST(1.0,
		cos(radians($%d)) * cos(radians((start_location->'coordinates'->>1)::float8)) *
		cos(radians((start_location->'coordinates'->>0)::float8) - radians($%d)) +
		sin(radians($%d)) * sin(radians((start_location->'coordinates'->>1)::float8))))`

var listSchema = query.Schema{
	Columns: map[string]string{
		"name":            "name",
		"slug":            "slug",
		"duration":        "duration",
		"maxGroupSize":    "max_group_size",
		"difficulty":      "difficulty",
		"ratingsAverage":  "ratings_average",
		"ratingsQuantity": "ratings_quantity",
		"price":           "price",
		"priceDiscount":   "price_discount",
		"summary":         "summary",
		"createdAt":       "created_at",
	},
	DefaultSort: []query.Sort{{Field: "createdAt", Desc: true}},
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List runs the querystring-driven read. Secret tours never appear here
// regardless of what the client filters on.
func (r *Repository) List(ctx context.Context, opts query.Options) ([]Tour, error) {
	stmt, err := opts.Build(listSchema, []string{"secret = FALSE"}, nil)
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + tourColumns + ` FROM tours WHERE ` + stmt.Where
	if stmt.OrderBy != "" {
		q += " ORDER BY " + stmt.OrderBy
	}
	q += fmt.Sprintf(" LIMIT %d OFFSET %d", stmt.Limit, stmt.Offset)

	tours := []Tour{}
	if err := r.db.SelectContext(ctx, &tours, q, stmt.Args...); err != nil {
		return nil, core.MapStorageError(err)
	}
	return tours, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Tour, error) {
	var t Tour
	err := r.db.GetContext(ctx, &t, `
		SELECT `+tourColumns+`
		FROM tours
		WHERE id = $1 AND secret = FALSE`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.MapStorageError(err)
	}

	if err := r.loadChildren(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(
	ctx context.Context,
	t *Tour,
	startDates []time.Time,
	guideIDs []string,
) (*Tour, error) {
	var created Tour
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &created, `
			INSERT INTO tours (
				name, slug, duration, max_group_size, difficulty, price,
				price_discount, summary, description, image_cover, images,
				start_location, locations, secret
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+tourColumns,
			t.Name, t.Slug, t.Duration, t.MaxGroupSize, t.Difficulty,
			t.Price, t.PriceDiscount, t.Summary, t.Description,
			t.ImageCover, t.Images, t.StartLocation, t.Locations, t.Secret,
		)
		if err != nil {
			return core.MapStorageError(err)
		}

		if err := replaceStartDates(ctx, tx, created.ID.String(), startDates); err != nil {
			return err
		}
		return replaceGuides(ctx, tx, created.ID.String(), guideIDs)
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repository) Update(
	ctx context.Context,
	id string,
	req UpdateTourRequest,
	slug *string,
	startDates []time.Time,
) (*Tour, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	addSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if slug != nil {
		addSet("slug", *slug)
	}
	if req.Duration != nil {
		addSet("duration", *req.Duration)
	}
	if req.MaxGroupSize != nil {
		addSet("max_group_size", *req.MaxGroupSize)
	}
	if req.Difficulty != nil {
		addSet("difficulty", *req.Difficulty)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.PriceDiscount != nil {
		addSet("price_discount", *req.PriceDiscount)
	}
	if req.Summary != nil {
		addSet("summary", *req.Summary)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.ImageCover != nil {
		addSet("image_cover", *req.ImageCover)
	}
	if req.Images != nil {
		addSet("images", StringList(*req.Images))
	}
	if req.StartLocation != nil {
		addSet("start_location", GeoPoint{Location: *req.StartLocation})
	}
	if req.Locations != nil {
		addSet("locations", LocationList(*req.Locations))
	}
	if req.Secret != nil {
		addSet("secret", *req.Secret)
	}

	var updated Tour
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &updated, `
			UPDATE tours
			SET `+strings.Join(sets, ", ")+`
			WHERE id = $1
			RETURNING `+tourColumns,
			args...,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrNotFound
			}
			return core.MapStorageError(err)
		}

		if req.StartDates != nil {
			if err := replaceStartDates(ctx, tx, id, startDates); err != nil {
				return err
			}
		}
		if req.Guides != nil {
			return replaceGuides(ctx, tx, id, *req.Guides)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return core.MapStorageError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Stats aggregates per difficulty over well-rated tours.
func (r *Repository) Stats(ctx context.Context) ([]TourStats, error) {
	stats := []TourStats{}
	err := r.db.SelectContext(ctx, &stats, `
		SELECT UPPER(difficulty) AS difficulty,
		       COUNT(*) AS num_tours,
		       COALESCE(SUM(ratings_quantity), 0) AS num_ratings,
		       AVG(ratings_average) AS avg_rating,
		       AVG(price) AS avg_price,
		       MIN(price) AS min_price,
		       MAX(price) AS max_price
		FROM tours
		WHERE ratings_average >= 4.5 AND secret = FALSE
		GROUP BY UPPER(difficulty)
		ORDER BY avg_price`,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return stats, nil
}

// MonthlyPlan counts departures per month of one year, busiest month
// first.
func (r *Repository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	plan := []MonthlyPlanEntry{}
	err := r.db.SelectContext(ctx, &plan, `
		SELECT EXTRACT(MONTH FROM d.starts_at)::int AS month,
		       COUNT(*) AS num_tour_starts,
		       jsonb_agg(t.name) AS tours
		FROM tour_start_dates d
		JOIN tours t ON t.id = d.tour_id
		WHERE EXTRACT(YEAR FROM d.starts_at) = $1 AND t.secret = FALSE
		GROUP BY EXTRACT(MONTH FROM d.starts_at)
		ORDER BY num_tour_starts DESC, month ASC
		LIMIT 12`,
		year,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return plan, nil
}

// Within returns tours whose start location falls inside a sphere of
// the given radius around the point.
func (r *Repository) Within(
	ctx context.Context,
	lat, lng, distance float64,
	unit string,
) ([]Tour, error) {
	radius := earthRadiusFor(unit)
	distExpr := fmt.Sprintf(sphericalDistance, 1, 2, 3, 2)

	tours := []Tour{}
	err := r.db.SelectContext(ctx, &tours, `
		SELECT `+tourColumns+`
		FROM tours
		WHERE secret = FALSE
		  AND start_location IS NOT NULL
		  AND `+distExpr+` <= $4`,
		radius, lat, lng, distance,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return tours, nil
}

// Distances lists every tour with its distance from the point, nearest
// first.
func (r *Repository) Distances(
	ctx context.Context,
	lat, lng float64,
	unit string,
) ([]TourDistance, error) {
	radius := earthRadiusFor(unit)
	distExpr := fmt.Sprintf(sphericalDistance, 1, 2, 3, 2)

	distances := []TourDistance{}
	err := r.db.SelectContext(ctx, &distances, `
		SELECT id, name, `+distExpr+` AS distance
		FROM tours
		WHERE secret = FALSE AND start_location IS NOT NULL
		ORDER BY distance`,
		radius, lat, lng,
	)
	if err != nil {
		return nil, core.MapStorageError(err)
	}
	return distances, nil
}

// SetRatings writes the recomputed review aggregate onto the tour.
func (r *Repository) SetRatings(
	ctx context.Context,
	tourID string,
	quantity int,
	average float64,
) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tours
		SET ratings_quantity = $2,
		    ratings_average = $3,
		    updated_at = now()
		WHERE id = $1`,
		tourID, quantity, average,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	return nil
}

func earthRadiusFor(unit string) float64 {
	if unit == "mi" {
		return earthRadiusMiles
	}
	return earthRadiusKM
}

func (r *Repository) loadChildren(ctx context.Context, t *Tour) error {
	dates := []time.Time{}
	err := r.db.SelectContext(ctx, &dates, `
		SELECT starts_at
		FROM tour_start_dates
		WHERE tour_id = $1
		ORDER BY starts_at`,
		t.ID,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	t.StartDates = dates

	guides := []Guide{}
	err = r.db.SelectContext(ctx, &guides, `
		SELECT u.id, u.name, u.email, u.photo, u.role
		FROM tour_guides g
		JOIN users u ON u.id = g.user_id
		WHERE g.tour_id = $1 AND u.active = TRUE
		ORDER BY u.name`,
		t.ID,
	)
	if err != nil {
		return core.MapStorageError(err)
	}
	t.Guides = guides

	return nil
}

func replaceStartDates(
	ctx context.Context,
	tx *sqlx.Tx,
	tourID string,
	dates []time.Time,
) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tour_start_dates WHERE tour_id = $1`, tourID,
	); err != nil {
		return core.MapStorageError(err)
	}

	for _, d := range dates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tour_start_dates (tour_id, starts_at)
			VALUES ($1, $2)`,
			tourID, d,
		); err != nil {
			return core.MapStorageError(err)
		}
	}
	return nil
}

func replaceGuides(
	ctx context.Context,
	tx *sqlx.Tx,
	tourID string,
	guideIDs []string,
) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tour_guides WHERE tour_id = $1`, tourID,
	); err != nil {
		return core.MapStorageError(err)
	}

	for _, guideID := range guideIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tour_guides (tour_id, user_id)
			VALUES ($1, $2)`,
			tourID, guideID,
		); err != nil {
			return core.MapStorageError(err)
		}
	}
	return nil
}
