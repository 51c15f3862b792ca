// AngelaMos | 2026
// handler.go

package tour

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/query"
)

// ReviewSummary is the embedded review view returned with a single
// tour.
type ReviewSummary struct {
	ID          string    `json:"id"`
	Review      string    `json:"review"`
	Rating      int       `json:"rating"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorPhoto string    `json:"authorPhoto,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewSource supplies the reviews embedded in a tour detail response.
type ReviewSource interface {
	ReviewsForTour(ctx context.Context, tourID string) ([]ReviewSummary, error)
}

type Handler struct {
	service  *Service
	reviews  ReviewSource
	validate *validator.Validate
}

func NewHandler(
	service *Service,
	reviews ReviewSource,
	validate *validator.Validate,
) *Handler {
	return &Handler{service: service, reviews: reviews, validate: validate}
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/top-5-cheap", h.TopCheap)
	r.Get("/tour-stats", h.Stats)
	r.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", h.Within)
	r.Get("/distances/{latlng}/unit/{unit}", h.Distances)
	r.Get("/{tourID}", h.Get)
}

// RegisterPlanRoutes mounts the monthly plan. The caller restricts the
// group to staff roles.
func (h *Handler) RegisterPlanRoutes(r chi.Router) {
	r.Get("/monthly-plan/{year}", h.MonthlyPlan)
}

// RegisterManageRoutes mounts the write endpoints. The caller restricts
// the group to admin and lead-guide.
func (h *Handler) RegisterManageRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{tourID}", h.Update)
	r.Delete("/{tourID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := query.Parse(r.URL.Query())

	tours, err := h.service.List(r.Context(), opts)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(tours), map[string]any{"tours": toResponses(tours)})
}

func (h *Handler) TopCheap(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.TopCheap(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(tours), map[string]any{"tours": toResponses(tours)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tourID")

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	reviews, err := h.reviews.ReviewsForTour(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"tour":    ToResponse(t),
		"reviews": reviews,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTourRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, map[string]any{"tour": ToResponse(t)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTourRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Update(r.Context(), chi.URLParam(r, "tourID"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"tour": ToResponse(t)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "tourID")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"stats": stats})
}

func (h *Handler) MonthlyPlan(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		core.BadRequest(w, "year must be a positive number")
		return
	}

	plan, err := h.service.MonthlyPlan(r.Context(), year)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(plan), map[string]any{"plan": plan})
}

func (h *Handler) Within(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil || distance <= 0 {
		core.BadRequest(w, "distance must be a positive number")
		return
	}

	lat, lng, ok := parseLatLng(chi.URLParam(r, "latlng"))
	if !ok {
		core.BadRequest(w,
			"please provide latitude and longitude in the format lat,lng")
		return
	}

	unit, ok := parseUnit(chi.URLParam(r, "unit"))
	if !ok {
		core.BadRequest(w, "unit must be mi or km")
		return
	}

	tours, err := h.service.Within(r.Context(), lat, lng, distance, unit)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(tours), map[string]any{"tours": toResponses(tours)})
}

func (h *Handler) Distances(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseLatLng(chi.URLParam(r, "latlng"))
	if !ok {
		core.BadRequest(w,
			"please provide latitude and longitude in the format lat,lng")
		return
	}

	unit, ok := parseUnit(chi.URLParam(r, "unit"))
	if !ok {
		core.BadRequest(w, "unit must be mi or km")
		return
	}

	distances, err := h.service.Distances(r.Context(), lat, lng, unit)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(distances), map[string]any{"distances": distances})
}

func parseLatLng(raw string) (lat, lng float64, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

func parseUnit(raw string) (string, bool) {
	switch raw {
	case "mi", "km":
		return raw, true
	default:
		return "", false
	}
}

func toResponses(tours []Tour) []TourResponse {
	responses := make([]TourResponse, 0, len(tours))
	for i := range tours {
		responses = append(responses, ToResponse(&tours[i]))
	}
	return responses
}
