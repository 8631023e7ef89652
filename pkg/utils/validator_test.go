package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatorItem struct {
	ID       string `json:"pizza_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

type validatorBody struct {
	Email string          `json:"email" validate:"required,email"`
	Role  string          `json:"role" validate:"omitempty,oneof=user admin"`
	Items []validatorItem `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(validatorBody{
		Email: "nope",
		Role:  "root",
		Items: []validatorItem{{ID: "x", Quantity: 0}},
	})

	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Must be one of: user, admin", errs["role"])
	assert.Equal(t, "Must be a valid UUID", errs["items[0].pizza_id"])
	assert.Equal(t, "Minimum is 1", errs["items[0].quantity"])
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(validatorBody{
		Email: "a@b.com",
		Items: []validatorItem{{ID: "8b0d7b0e-8f8a-4a6e-9d4c-1f1f3c7d2a11", Quantity: 2}},
	})
	assert.Nil(t, errs)
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"name": "This field is required", "email": "Invalid email format"})
	assert.Equal(t, "email: Invalid email format; name: This field is required", got)
}
