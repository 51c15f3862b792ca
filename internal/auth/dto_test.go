// AngelaMos | 2026
// dto_test.go

package auth

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func TestSignupRequestValid(t *testing.T) {
	req := SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
	if err := validate.Struct(req); err != nil {
		t.Fatalf("valid signup rejected: %v", err)
	}
}

func TestSignupRequestPasswordMismatch(t *testing.T) {
	req := SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "pass1234",
		PasswordConfirm: "different",
	}
	if err := validate.Struct(req); err == nil {
		t.Fatal("mismatched password confirmation must fail validation")
	}
}

func TestSignupRequestShortPassword(t *testing.T) {
	req := SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "short",
		PasswordConfirm: "short",
	}
	if err := validate.Struct(req); err == nil {
		t.Fatal("password below 8 characters must fail validation")
	}
}

func TestSignupRequestBadEmail(t *testing.T) {
	req := SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "not-an-email",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
	if err := validate.Struct(req); err == nil {
		t.Fatal("malformed email must fail validation")
	}
}

func TestUpdatePasswordRequestRequiresNewPassword(t *testing.T) {
	req := UpdatePasswordRequest{
		PasswordCurrent: "oldpass1234",
		Password:        "oldpass1234",
		PasswordConfirm: "oldpass1234",
	}
	if err := validate.Struct(req); err == nil {
		t.Fatal("new password equal to current must fail validation")
	}
}
