// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
	"github.com/angelamos/trailhead/internal/user"
)

type fakeStore struct {
	review   *Review
	aggCount int
	aggAvg   float64
	aggErr   error
}

func (f *fakeStore) Create(_ context.Context, tourID, userID, text string, rating int) (*Review, error) {
	return &Review{
		ID:     uuid.New(),
		TourID: uuid.MustParse(tourID),
		UserID: uuid.MustParse(userID),
		Review: text,
		Rating: rating,
	}, nil
}

func (f *fakeStore) GetByID(context.Context, string) (*Review, error) { return f.review, nil }

func (f *fakeStore) List(context.Context, query.Options) ([]Review, error) { return nil, nil }

func (f *fakeStore) ListByTour(context.Context, string) ([]Review, error) { return nil, nil }

func (f *fakeStore) Update(context.Context, string, UpdateReviewRequest) (*Review, error) {
	return f.review, nil
}

func (f *fakeStore) Delete(context.Context, string) error { return nil }

func (f *fakeStore) Aggregate(context.Context, string) (int, float64, error) {
	return f.aggCount, f.aggAvg, f.aggErr
}

type ratingsRecorder struct {
	called   bool
	tourID   string
	quantity int
	average  float64
}

func (r *ratingsRecorder) SetRatings(_ context.Context, tourID string, quantity int, average float64) error {
	r.called = true
	r.tourID = tourID
	r.quantity = quantity
	r.average = average
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateRecomputesRatings(t *testing.T) {
	tourID := uuid.New()
	store := &fakeStore{aggCount: 3, aggAvg: 4.0}
	recorder := &ratingsRecorder{}
	svc := NewService(store, recorder, discardLogger())

	_, err := svc.Create(context.Background(), tourID.String(), uuid.New().String(), CreateReviewRequest{
		Review: "great trip",
		Rating: 4,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if !recorder.called {
		t.Fatal("expected ratings recompute after create")
	}
	if recorder.tourID != tourID.String() || recorder.quantity != 3 || recorder.average != 4.0 {
		t.Fatalf("got SetRatings(%s, %d, %g)", recorder.tourID, recorder.quantity, recorder.average)
	}
}

func TestDeleteLastReviewAppliesDefaultAverage(t *testing.T) {
	author := uuid.New()
	rev := &Review{ID: uuid.New(), TourID: uuid.New(), UserID: author, Rating: 5}
	store := &fakeStore{review: rev, aggCount: 0, aggAvg: 0}
	recorder := &ratingsRecorder{}
	svc := NewService(store, recorder, discardLogger())

	if err := svc.Delete(context.Background(), rev.ID.String(), author.String(), user.RoleUser); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	if !recorder.called {
		t.Fatal("expected ratings recompute after delete")
	}
	if recorder.quantity != 0 || recorder.average != defaultAverage {
		t.Fatalf("got SetRatings(_, %d, %g), want (0, %g)",
			recorder.quantity, recorder.average, defaultAverage)
	}
}

func TestAggregateFailureSkipsRatingsWrite(t *testing.T) {
	store := &fakeStore{aggErr: errors.New("connection reset")}
	recorder := &ratingsRecorder{}
	svc := NewService(store, recorder, discardLogger())

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), CreateReviewRequest{
		Review: "still counts",
		Rating: 3,
	})
	if err != nil {
		t.Fatalf("review write should survive an aggregate failure: %v", err)
	}

	if recorder.called {
		t.Fatal("ratings must not be written from a failed aggregate")
	}
}

func TestAuthorizeAuthor(t *testing.T) {
	authorID := uuid.New()
	rev := &Review{UserID: authorID}

	if err := authorize(rev, authorID.String(), user.RoleUser); err != nil {
		t.Fatalf("author should modify own review: %v", err)
	}
}

func TestAuthorizeAdminOverride(t *testing.T) {
	rev := &Review{UserID: uuid.New()}

	if err := authorize(rev, uuid.New().String(), user.RoleAdmin); err != nil {
		t.Fatalf("admin should modify any review: %v", err)
	}
}

func TestAuthorizeStrangerForbidden(t *testing.T) {
	rev := &Review{UserID: uuid.New()}

	err := authorize(rev, uuid.New().String(), user.RoleUser)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeGuideIsNotAdmin(t *testing.T) {
	rev := &Review{UserID: uuid.New()}

	err := authorize(rev, uuid.New().String(), user.RoleLeadGuide)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("staff roles get no review override, got %v", err)
	}
}
