// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"log/slog"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
	"github.com/angelamos/trailhead/internal/tour"
	"github.com/angelamos/trailhead/internal/user"
)

// defaultAverage is applied when a tour loses its last review.
const defaultAverage = 4.5

// RatingsUpdater receives the recomputed aggregate after any review
// write. Satisfied by the tour repository.
type RatingsUpdater interface {
	SetRatings(ctx context.Context, tourID string, quantity int, average float64) error
}

// Store is the persistence surface the service needs. Satisfied by
// *Repository.
type Store interface {
	Create(ctx context.Context, tourID, userID, text string, rating int) (*Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, opts query.Options) ([]Review, error)
	ListByTour(ctx context.Context, tourID string) ([]Review, error)
	Update(ctx context.Context, id string, req UpdateReviewRequest) (*Review, error)
	Delete(ctx context.Context, id string) error
	Aggregate(ctx context.Context, tourID string) (int, float64, error)
}

type Service struct {
	repo    Store
	ratings RatingsUpdater
	logger  *slog.Logger
}

func NewService(repo Store, ratings RatingsUpdater, logger *slog.Logger) *Service {
	return &Service{repo: repo, ratings: ratings, logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	tourID, userID string,
	req CreateReviewRequest,
) (*Review, error) {
	rev, err := s.repo.Create(ctx, tourID, userID, req.Review, req.Rating)
	if err != nil {
		return nil, err
	}

	s.recomputeRatings(ctx, tourID)
	return rev, nil
}

func (s *Service) List(ctx context.Context, opts query.Options) ([]Review, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) ListByTour(ctx context.Context, tourID string) ([]Review, error) {
	return s.repo.ListByTour(ctx, tourID)
}

func (s *Service) Get(ctx context.Context, id string) (*Review, error) {
	return s.repo.GetByID(ctx, id)
}

// Update patches a review. Only the author or an admin may change it.
func (s *Service) Update(
	ctx context.Context,
	id, callerID, callerRole string,
	req UpdateReviewRequest,
) (*Review, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(existing, callerID, callerRole); err != nil {
		return nil, err
	}

	rev, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.recomputeRatings(ctx, rev.TourID.String())
	return rev, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID, callerRole string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(existing, callerID, callerRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recomputeRatings(ctx, existing.TourID.String())
	return nil
}

// ReviewsForTour implements tour.ReviewSource.
func (s *Service) ReviewsForTour(
	ctx context.Context,
	tourID string,
) ([]tour.ReviewSummary, error) {
	reviews, err := s.repo.ListByTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	summaries := make([]tour.ReviewSummary, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		summaries = append(summaries, tour.ReviewSummary{
			ID:          r.ID.String(),
			Review:      r.Review,
			Rating:      r.Rating,
			AuthorID:    r.UserID.String(),
			AuthorName:  r.AuthorName,
			AuthorPhoto: r.AuthorPhoto,
			CreatedAt:   r.CreatedAt,
		})
	}
	return summaries, nil
}

// recomputeRatings refreshes the tour's denormalized aggregate. The
// review write already committed, so a failure here only logs; the
// next write self-heals the numbers.
func (s *Service) recomputeRatings(ctx context.Context, tourID string) {
	count, avg, err := s.repo.Aggregate(ctx, tourID)
	if err != nil {
		s.logger.Error("aggregate reviews failed", "tour_id", tourID, "error", err)
		return
	}

	if count == 0 {
		avg = defaultAverage
	}

	if err := s.ratings.SetRatings(ctx, tourID, count, avg); err != nil {
		s.logger.Error("update tour ratings failed", "tour_id", tourID, "error", err)
	}
}

func authorize(rev *Review, callerID, callerRole string) error {
	if callerRole == user.RoleAdmin || rev.UserID.String() == callerID {
		return nil
	}
	return core.ForbiddenError("you can only modify your own reviews")
}
