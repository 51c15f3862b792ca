// AngelaMos | 2026
// handler.go

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/middleware"
)

type Handler struct {
	service      *Service
	validate     *validator.Validate
	cookieName   string
	cookieExpire time.Duration
	secureCookie bool
}

func NewHandler(
	service *Service,
	validate *validator.Validate,
	cookieName string,
	cookieExpire time.Duration,
	secureCookie bool,
) *Handler {
	return &Handler{
		service:      service,
		validate:     validate,
		cookieName:   cookieName,
		cookieExpire: cookieExpire,
		secureCookie: secureCookie,
	}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints on the
// given router (expected to be the /users subtree).
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/forgotPassword", h.ForgotPassword)
	r.Patch("/resetPassword/{token}", h.ResetPassword)
}

// RegisterProtectedRoutes mounts endpoints that require a verified
// session. The caller applies the auth middleware to the group.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Patch("/updateMyPassword", h.UpdatePassword)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.Created(w, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, "please provide email and password")
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.OK(w, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	core.OK(w, nil)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ForgotPasswordResponse{Message: "token sent to email"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		core.BadRequest(w, "reset token is required")
		return
	}

	var req ResetPasswordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.ResetPassword(r.Context(), token, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.OK(w, result)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "you are not logged in, please log in to get access")
		return
	}

	var req UpdatePasswordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.UpdatePassword(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.OK(w, result)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieExpire),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
