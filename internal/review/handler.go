// AngelaMos | 2026
// handler.go

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/middleware"
	"github.com/angelamos/trailhead/internal/query"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// RegisterTourRoutes mounts the reads nested under a tour.
func (h *Handler) RegisterTourRoutes(r chi.Router) {
	r.Get("/{tourID}/reviews", h.ListByTour)
}

// RegisterTourWriteRoutes mounts review creation nested under a tour.
// The caller restricts the group to the customer role.
func (h *Handler) RegisterTourWriteRoutes(r chi.Router) {
	r.Post("/{tourID}/reviews", h.Create)
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterProtectedRoutes mounts the write endpoints; ownership is
// enforced in the service.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "you are not logged in, please log in to get access")
		return
	}

	var req CreateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.Create(r.Context(), chi.URLParam(r, "tourID"), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, map[string]any{"review": ToResponse(rev)})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := query.Parse(r.URL.Query())

	reviews, err := h.service.List(r.Context(), opts)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(reviews), map[string]any{"reviews": toResponses(reviews)})
}

func (h *Handler) ListByTour(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByTour(r.Context(), chi.URLParam(r, "tourID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(reviews), map[string]any{"reviews": toResponses(reviews)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rev, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"review": ToResponse(rev)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())

	var req UpdateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userID, role, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"review": ToResponse(rev)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())

	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID, role)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func toResponses(reviews []Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, ToResponse(&reviews[i]))
	}
	return responses
}
