// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
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

// RegisterSelfRoutes mounts the authenticated self-service endpoints.
func (h *Handler) RegisterSelfRoutes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Patch("/me", h.UpdateMe)
	r.Delete("/me", h.DeleteMe)
}

// RegisterAdminRoutes mounts the user-management endpoints. The caller
// restricts the group to admins.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "you are not logged in, please log in to get access")
		return
	}

	u, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": ToResponse(u)})
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "you are not logged in, please log in to get access")
		return
	}

	var raw map[string]json.RawMessage
	if err := core.DecodeJSON(r, &raw); err != nil {
		core.JSONError(w, err)
		return
	}
	if _, found := raw["password"]; found {
		core.BadRequest(w,
			"this route is not for password updates, please use /updateMyPassword")
		return
	}
	if _, found := raw["passwordConfirm"]; found {
		core.BadRequest(w,
			"this route is not for password updates, please use /updateMyPassword")
		return
	}

	var req UpdateMeRequest
	if err := remarshal(raw, &req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": ToResponse(u)})
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "you are not logged in, please log in to get access")
		return
	}

	if err := h.service.DeleteMe(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := query.Parse(r.URL.Query())

	users, err := h.service.List(r.Context(), opts)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToResponse(&users[i]))
	}

	core.List(w, len(responses), map[string]any{"users": responses})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": ToResponse(u)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req AdminUpdateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.AdminUpdate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": ToResponse(u)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AdminDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func remarshal(raw map[string]json.RawMessage, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
