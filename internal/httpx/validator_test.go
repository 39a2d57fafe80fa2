package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	ISBN     string `json:"isbn" validate:"omitempty,notblank"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, ValidateStruct(registerForm{Email: "a@b.co", Username: "reader"}))
	})

	t.Run("uses json field names", func(t *testing.T) {
		details := ValidateStruct(registerForm{})
		assert.Contains(t, details, ErrorDetail{Field: "email", Message: "email is required"})
		assert.Contains(t, details, ErrorDetail{Field: "username", Message: "username is required"})
	})

	t.Run("email format", func(t *testing.T) {
		details := ValidateStruct(registerForm{Email: "nope", Username: "reader"})
		assert.Equal(t, []ErrorDetail{{Field: "email", Message: "email must be a valid email address"}}, details)
	})

	t.Run("blank isbn", func(t *testing.T) {
		details := ValidateStruct(registerForm{Email: "a@b.co", Username: "reader", ISBN: "   "})
		assert.Equal(t, []ErrorDetail{{Field: "isbn", Message: "isbn is required"}}, details)
	})

	t.Run("min length", func(t *testing.T) {
		details := ValidateStruct(registerForm{Email: "a@b.co", Username: "ab"})
		assert.Equal(t, []ErrorDetail{{Field: "username", Message: "username must be at least 3 characters"}}, details)
	})
}
