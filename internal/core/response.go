// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync/atomic"
)

// Success envelope: {"status":"success","data":{...}}.
// Failure envelope: {"status":"fail"|"error","message":"..."} — "fail" for
// 4xx, "error" for 5xx. Verbose mode additionally carries the raw error and
// a stack trace; it is never enabled in production-like deployments.

var verboseErrors atomic.Bool

func SetVerboseErrors(enabled bool) {
	verboseErrors.Store(enabled)
}

type successEnvelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // response already committed
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Status: "success", Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, successEnvelope{Status: "success", Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// List writes a success envelope with a results count, matching the shape of
// collection reads.
func List(w http.ResponseWriter, count int, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{
		Status:  "success",
		Results: &count,
		Data:    data,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

// InternalServerError logs the underlying failure and renders the generic
// 500 envelope; internals are only exposed in verbose mode.
func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("unexpected error", "error", err)

	envelope := errorEnvelope{
		Status:  "error",
		Message: "something went very wrong",
	}

	if verboseErrors.Load() && err != nil {
		envelope.Error = err.Error()
		envelope.Stack = string(debug.Stack())
	}

	writeJSON(w, http.StatusInternalServerError, envelope)
}

// JSONError is the single rendering point for propagated failures. Known
// operational shapes map to 4xx with a readable message; everything else
// collapses to the generic 500.
func JSONError(w http.ResponseWriter, err error) {
	mapped := MapStorageError(err)

	var appErr *AppError
	if !errors.As(mapped, &appErr) {
		InternalServerError(w, err)
		return
	}

	status := "error"
	if appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500 {
		status = "fail"
	}

	envelope := errorEnvelope{
		Status:  status,
		Message: appErr.Message,
		Code:    appErr.Code,
	}

	if verboseErrors.Load() && appErr.Err != nil {
		envelope.Error = appErr.Err.Error()
	}

	writeJSON(w, appErr.HTTPStatus, envelope)
}
