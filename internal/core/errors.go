// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is an operational error: deliberately raised, safe to render to
// the client. Anything that is not an AppError (and cannot be mapped to one)
// is treated as a programming error and collapsed to a generic 500.
type AppError struct {
	Err        error
	Message    string
	HTTPStatus int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		HTTPStatus: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("no %s found with that ID", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("duplicate %s value, please use another value", field),
		http.StatusBadRequest,
		"DUPLICATE_FIELD",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"your token has expired, please log in again",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid token, please log in again",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

// Postgres error codes mapped to client-facing failures.
const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
)

// MapStorageError converts known storage failure shapes into operational
// errors. Unknown shapes pass through unchanged and render as a 500.
func MapStorageError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return DuplicateError(constraintField(pgErr.ConstraintName))
		case pgInvalidText:
			return ValidationError("invalid identifier format")
		case pgCheckViolation:
			return ValidationError(
				fmt.Sprintf("constraint violated: %s", constraintField(pgErr.ConstraintName)),
			)
		case pgFKViolation:
			return ValidationError("referenced resource does not exist")
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError("resource")
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError("field")
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	}

	return err
}

// constraintField extracts a readable field name from a constraint such as
// "users_email_key" or "tours_name_key".
func constraintField(constraint string) string {
	if constraint == "" {
		return "field"
	}

	name := strings.TrimSuffix(constraint, "_key")
	name = strings.TrimSuffix(name, "_check")
	if idx := strings.Index(name, "_"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return "field"
	}
	return name
}

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, ErrDuplicateKey)
}

// FormatValidationError turns validator.ValidationErrors into one readable
// message, joining the per-field messages with ". ".
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid input data"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldMessage(fieldErr))
	}

	return "invalid input data: " + strings.Join(messages, ". ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be below %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
