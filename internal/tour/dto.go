// AngelaMos | 2026
// dto.go

package tour

import "time"

type CreateTourRequest struct {
	Name          string     `json:"name"          validate:"required,min=10,max=40"`
	Duration      int        `json:"duration"      validate:"required,gt=0"`
	MaxGroupSize  int        `json:"maxGroupSize"  validate:"required,gt=0"`
	Difficulty    string     `json:"difficulty"    validate:"required,oneof=easy medium difficult"`
	Price         float64    `json:"price"         validate:"required,gt=0"`
	PriceDiscount *float64   `json:"priceDiscount" validate:"omitempty,gt=0"`
	Summary       string     `json:"summary"       validate:"required"`
	Description   string     `json:"description"`
	ImageCover    string     `json:"imageCover"    validate:"required"`
	Images        []string   `json:"images"`
	StartDates    []string   `json:"startDates"    validate:"omitempty,dive,datetime=2006-01-02"`
	StartLocation *Location  `json:"startLocation"`
	Locations     []Location `json:"locations"`
	Guides        []string   `json:"guides"        validate:"omitempty,dive,uuid"`
	Secret        bool       `json:"secret"`
}

type UpdateTourRequest struct {
	Name          *string     `json:"name"          validate:"omitempty,min=10,max=40"`
	Duration      *int        `json:"duration"      validate:"omitempty,gt=0"`
	MaxGroupSize  *int        `json:"maxGroupSize"  validate:"omitempty,gt=0"`
	Difficulty    *string     `json:"difficulty"    validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64    `json:"price"         validate:"omitempty,gt=0"`
	PriceDiscount *float64    `json:"priceDiscount" validate:"omitempty,gt=0"`
	Summary       *string     `json:"summary"`
	Description   *string     `json:"description"`
	ImageCover    *string     `json:"imageCover"`
	Images        *[]string   `json:"images"`
	StartDates    *[]string   `json:"startDates"    validate:"omitempty,dive,datetime=2006-01-02"`
	StartLocation *Location   `json:"startLocation"`
	Locations     *[]Location `json:"locations"`
	Guides        *[]string   `json:"guides"        validate:"omitempty,dive,uuid"`
	Secret        *bool       `json:"secret"`
}

type TourResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Duration        int         `json:"duration"`
	DurationWeeks   float64     `json:"durationWeeks"`
	MaxGroupSize    int         `json:"maxGroupSize"`
	Difficulty      string      `json:"difficulty"`
	RatingsAverage  float64     `json:"ratingsAverage"`
	RatingsQuantity int         `json:"ratingsQuantity"`
	Price           float64     `json:"price"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty"`
	Summary         string      `json:"summary"`
	Description     string      `json:"description,omitempty"`
	ImageCover      string      `json:"imageCover"`
	Images          []string    `json:"images,omitempty"`
	StartDates      []time.Time `json:"startDates,omitempty"`
	StartLocation   *Location   `json:"startLocation,omitempty"`
	Locations       []Location  `json:"locations,omitempty"`
	Guides          []Guide     `json:"guides,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func ToResponse(t *Tour) TourResponse {
	resp := TourResponse{
		ID:              t.ID.String(),
		Name:            t.Name,
		Slug:            t.Slug,
		Duration:        t.Duration,
		DurationWeeks:   t.DurationWeeks(),
		MaxGroupSize:    t.MaxGroupSize,
		Difficulty:      t.Difficulty,
		RatingsAverage:  t.RatingsAverage,
		RatingsQuantity: t.RatingsQuantity,
		Price:           t.Price,
		PriceDiscount:   t.PriceDiscount,
		Summary:         t.Summary,
		Description:     t.Description,
		ImageCover:      t.ImageCover,
		Images:          t.Images,
		StartDates:      t.StartDates,
		Locations:       t.Locations,
		Guides:          t.Guides,
		CreatedAt:       t.CreatedAt,
	}
	if t.StartLocation.Location.Type != "" {
		loc := t.StartLocation.Location
		resp.StartLocation = &loc
	}
	return resp
}

// TourStats is one aggregation row per difficulty, computed over tours
// rated 4.5 and above.
type TourStats struct {
	Difficulty string  `db:"difficulty" json:"difficulty"`
	NumTours   int     `db:"num_tours"  json:"numTours"`
	NumRatings int     `db:"num_ratings" json:"numRatings"`
	AvgRating  float64 `db:"avg_rating" json:"avgRating"`
	AvgPrice   float64 `db:"avg_price"  json:"avgPrice"`
	MinPrice   float64 `db:"min_price"  json:"minPrice"`
	MaxPrice   float64 `db:"max_price"  json:"maxPrice"`
}

// MonthlyPlanEntry counts tour departures for one month of the
// requested year.
type MonthlyPlanEntry struct {
	Month         int        `db:"month" json:"month"`
	NumTourStarts int        `db:"num_tour_starts" json:"numTourStarts"`
	Tours         StringList `db:"tours" json:"tours"`
}

// TourDistance pairs a tour with its distance from a reference point.
type TourDistance struct {
	ID       string  `db:"id"       json:"id"`
	Name     string  `db:"name"     json:"name"`
	Distance float64 `db:"distance" json:"distance"`
}
