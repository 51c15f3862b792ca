// AngelaMos | 2026
// service.go

package tour

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
)

const startDateLayout = "2006-01-02"

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, opts query.Options) ([]Tour, error) {
	return s.repo.List(ctx, opts)
}

// TopCheap is the canned "best value" read: five top-rated tours,
// cheapest tie first.
func (s *Service) TopCheap(ctx context.Context) ([]Tour, error) {
	opts := query.Options{
		Sorts: []query.Sort{
			{Field: "ratingsAverage", Desc: true},
			{Field: "price"},
		},
		Fields: []string{
			"name", "price", "ratingsAverage", "summary", "difficulty",
		},
		Page:  1,
		Limit: 5,
	}
	return s.repo.List(ctx, opts)
}

func (s *Service) Get(ctx context.Context, id string) (*Tour, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateTourRequest) (*Tour, error) {
	if err := validateDiscount(req.PriceDiscount, req.Price); err != nil {
		return nil, err
	}

	startDates, err := parseStartDates(req.StartDates)
	if err != nil {
		return nil, err
	}

	t := Tour{
		Name:          req.Name,
		Slug:          slug.Make(req.Name),
		Duration:      req.Duration,
		MaxGroupSize:  req.MaxGroupSize,
		Difficulty:    req.Difficulty,
		Price:         req.Price,
		PriceDiscount: req.PriceDiscount,
		Summary:       req.Summary,
		Description:   req.Description,
		ImageCover:    req.ImageCover,
		Images:        StringList(req.Images),
		Locations:     LocationList(req.Locations),
		Secret:        req.Secret,
	}
	if req.StartLocation != nil {
		t.StartLocation = GeoPoint{Location: *req.StartLocation}
	}

	return s.repo.Create(ctx, &t, startDates, req.Guides)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateTourRequest,
) (*Tour, error) {
	// Discount sanity needs the final price, so fetch the current row
	// when only one side of the pair changes.
	if req.PriceDiscount != nil || req.Price != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		price := current.Price
		if req.Price != nil {
			price = *req.Price
		}
		discount := current.PriceDiscount
		if req.PriceDiscount != nil {
			discount = req.PriceDiscount
		}
		if err := validateDiscount(discount, price); err != nil {
			return nil, err
		}
	}

	var newSlug *string
	if req.Name != nil {
		derived := slug.Make(*req.Name)
		newSlug = &derived
	}

	var startDates []time.Time
	if req.StartDates != nil {
		parsed, err := parseStartDates(*req.StartDates)
		if err != nil {
			return nil, err
		}
		startDates = parsed
	}

	return s.repo.Update(ctx, id, req, newSlug, startDates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) ([]TourStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	return s.repo.MonthlyPlan(ctx, year)
}

func (s *Service) Within(
	ctx context.Context,
	lat, lng, distance float64,
	unit string,
) ([]Tour, error) {
	return s.repo.Within(ctx, lat, lng, distance, unit)
}

func (s *Service) Distances(
	ctx context.Context,
	lat, lng float64,
	unit string,
) ([]TourDistance, error) {
	return s.repo.Distances(ctx, lat, lng, unit)
}

func validateDiscount(discount *float64, price float64) error {
	if discount != nil && *discount >= price {
		return core.ValidationError(
			"discount price should be below the regular price",
		)
	}
	return nil
}

func parseStartDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(startDateLayout, s)
		if err != nil {
			return nil, core.ValidationError(
				fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", s),
			)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
