// AngelaMos | 2026
// entity.go

package tour

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"`
}

// GeoPoint stores a Location in a jsonb column.
type GeoPoint struct {
	Location
}

func (g GeoPoint) Value() (driver.Value, error) {
	return json.Marshal(g.Location)
}

func (g *GeoPoint) Scan(src any) error {
	return scanJSON(src, &g.Location)
}

// LocationList stores itinerary stops in a jsonb column.
type LocationList []Location

func (l LocationList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Location{})
	}
	return json.Marshal(l)
}

func (l *LocationList) Scan(src any) error {
	return scanJSON(src, l)
}

// StringList stores an ordered string array in a jsonb column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into jsonb value", src)
	}
}

// Guide is the embedded view of a user assigned to lead a tour.
type Guide struct {
	ID    uuid.UUID `db:"id"    json:"id"`
	Name  string    `db:"name"  json:"name"`
	Email string    `db:"email" json:"email"`
	Photo string    `db:"photo" json:"photo,omitempty"`
	Role  string    `db:"role"  json:"role"`
}

type Tour struct {
	ID              uuid.UUID    `db:"id"`
	Name            string       `db:"name"`
	Slug            string       `db:"slug"`
	Duration        int          `db:"duration"`
	MaxGroupSize    int          `db:"max_group_size"`
	Difficulty      string       `db:"difficulty"`
	RatingsAverage  float64      `db:"ratings_average"`
	RatingsQuantity int          `db:"ratings_quantity"`
	Price           float64      `db:"price"`
	PriceDiscount   *float64     `db:"price_discount"`
	Summary         string       `db:"summary"`
	Description     string       `db:"description"`
	ImageCover      string       `db:"image_cover"`
	Images          StringList   `db:"images"`
	StartLocation   GeoPoint     `db:"start_location"`
	Locations       LocationList `db:"locations"`
	Secret          bool         `db:"secret"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`

	// Loaded from child tables, not columns.
	StartDates []time.Time `db:"-"`
	Guides     []Guide     `db:"-"`
}

// DurationWeeks derives the weekly duration the same way the API
// exposes it: days divided by seven, not persisted.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}
