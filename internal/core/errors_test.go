// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapStorageErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
	}

	mapped := MapStorageError(fmt.Errorf("insert: %w", pgErr))

	var appErr *AppError
	if !errors.As(mapped, &appErr) {
		t.Fatalf("expected AppError, got %T", mapped)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
	if appErr.Message != "duplicate email value, please use another value" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestMapStorageErrorInvalidText(t *testing.T) {
	mapped := MapStorageError(&pgconn.PgError{Code: "22P02"})

	var appErr *AppError
	if !errors.As(mapped, &appErr) {
		t.Fatalf("expected AppError, got %T", mapped)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
}

func TestMapStorageErrorNotFoundSentinel(t *testing.T) {
	mapped := MapStorageError(fmt.Errorf("lookup: %w", ErrNotFound))

	var appErr *AppError
	if !errors.As(mapped, &appErr) {
		t.Fatalf("expected AppError, got %T", mapped)
	}
	if appErr.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", appErr.HTTPStatus)
	}
}

func TestMapStorageErrorPassesUnknownThrough(t *testing.T) {
	boom := errors.New("boom")
	if mapped := MapStorageError(boom); !errors.Is(mapped, boom) {
		t.Fatalf("unknown error should pass through, got %v", mapped)
	}
}

func TestConstraintField(t *testing.T) {
	cases := map[string]string{
		"users_email_key":             "email",
		"tours_name_key":              "name",
		"reviews_tour_id_user_id_key": "tour_id_user_id",
		"":                            "field",
	}
	for constraint, want := range cases {
		if got := constraintField(constraint); got != want {
			t.Errorf("constraintField(%q) = %q, want %q", constraint, got, want)
		}
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestJSONErrorOperationalIsFail(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NotFoundError("tour"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "fail" {
		t.Errorf("expected status fail, got %q", env.Status)
	}
	if env.Message != "no tour found with that ID" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestJSONErrorUnknownIsGeneric500(t *testing.T) {
	SetVerboseErrors(false)

	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" {
		t.Errorf("expected status error, got %q", env.Status)
	}
	if env.Message != "something went very wrong" {
		t.Errorf("internal detail leaked: %q", env.Message)
	}
	if env.Error != "" || env.Stack != "" {
		t.Error("internals must not render outside verbose mode")
	}
}

func TestJSONErrorVerboseModeCarriesDetail(t *testing.T) {
	SetVerboseErrors(true)
	defer SetVerboseErrors(false)

	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("boom"))

	env := decodeEnvelope(t, rec)
	if env.Error != "boom" {
		t.Errorf("expected raw error in verbose mode, got %q", env.Error)
	}
	if env.Stack == "" {
		t.Error("expected stack trace in verbose mode")
	}
}

func TestListEnvelopeCarriesResults(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, 3, map[string]any{"tours": []string{"a", "b", "c"}})

	var env struct {
		Status  string `json:"status"`
		Results int    `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != "success" || env.Results != 3 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
