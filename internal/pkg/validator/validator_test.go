package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type contact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type request struct {
	Customer contact `json:"customer"`
	Date     string  `json:"date" validate:"required,isodate"`
	Time     string  `json:"time" validate:"required,clock"`
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(request{
		Customer: contact{Name: "Bea", Email: "bea@example.com"},
		Date:     "2024-06-10",
		Time:     "2:00 PM",
	})
	assert.Nil(t, errs)
}

func TestValidate_FieldMessages(t *testing.T) {
	errs := Validate(request{
		Customer: contact{Email: "not-an-email"},
		Date:     "10/06/2024",
		Time:     "noon",
	})

	assert.Equal(t, "is required", errs["customer.name"])
	assert.Equal(t, "must be a valid email address", errs["customer.email"])
	assert.Contains(t, errs["date"], "YYYY-MM-DD")
	assert.Contains(t, errs["time"], "2:00 PM")
}

func TestVar(t *testing.T) {
	assert.True(t, Var("a@b.co", "email"))
	assert.False(t, Var("nope", "email"))
}
