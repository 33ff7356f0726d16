package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title  string   `json:"title" validate:"required,max=10"`
	Date   string   `json:"date" validate:"required,date"`
	Time   string   `json:"time" validate:"required,clock"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Status string   `json:"status" validate:"omitempty,oneof=accepted declined"`
	Tags   []string `json:"tags" validate:"omitempty,dive,min=2"`
}

func TestValidateOK(t *testing.T) {
	result := Validate(&sample{Title: "Standup", Date: "2024-01-10", Time: "09:00"})
	assert.False(t, result.HasError())
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	result := Validate(&sample{Date: "10/01/2024", Time: "9am", Email: "nope", Status: "sure"})

	assert.True(t, result.HasError())
	fields := map[string]string{}
	for _, e := range result.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "is required", fields["title"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", fields["date"])
	assert.Equal(t, "must be a time in HH:MM format", fields["time"])
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "status")
}

func TestDateAndClockRejectOutOfRange(t *testing.T) {
	result := Validate(&sample{Title: "x", Date: "2024-13-01", Time: "25:00"})
	assert.Len(t, result.Errors, 2)
}

func TestNilResultHasNoError(t *testing.T) {
	var r *ValidationResult
	assert.False(t, r.HasError())
}
