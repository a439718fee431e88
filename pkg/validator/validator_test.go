package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scheduleRequest struct {
	Start       string   `json:"start" validate:"required,hhmm"`
	Date        string   `json:"date" validate:"omitempty,isodate"`
	WorkingDays []string `json:"workingDays" validate:"dive,weekday"`
	SlotMinutes int      `json:"slotMinutes" validate:"omitempty,gte=5,lte=240"`
}

func TestCustomValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		req       scheduleRequest
		wantField string
		wantMsg   string
	}{
		{"valid", scheduleRequest{Start: "09:00", Date: "2025-01-06", WorkingDays: []string{"Mon", "friday"}, SlotMinutes: 30}, "", ""},
		{"missing start", scheduleRequest{}, "start", "start is required"},
		{"bad clock", scheduleRequest{Start: "9:00"}, "start", "start must be a time in HH:MM format"},
		{"hour out of range", scheduleRequest{Start: "24:00"}, "start", "start must be a time in HH:MM format"},
		{"bad date", scheduleRequest{Start: "09:00", Date: "2025-13-01"}, "date", "date must be a date in YYYY-MM-DD format"},
		{"bad weekday", scheduleRequest{Start: "09:00", WorkingDays: []string{"Funday"}}, "workingDays[0]", "workingDays[0] must be a weekday (Sun..Sat)"},
		{"slot too short", scheduleRequest{Start: "09:00", SlotMinutes: 2}, "slotMinutes", "slotMinutes must be greater than or equal to 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			errs := v.FormatValidationErrors(err)
			assert.Equal(t, tt.wantMsg, errs[tt.wantField])
		})
	}
}

func TestFormatValidationErrors_IgnoresOtherErrors(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}

func TestCustomValidator_HasTag(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&scheduleRequest{})
	assert.True(t, v.HasTag(err, "required"))
	assert.False(t, v.HasTag(err, "hhmm"))

	err = v.Validate(&scheduleRequest{Start: "9am"})
	assert.False(t, v.HasTag(err, "required"))
	assert.True(t, v.HasTag(err, "hhmm"))

	assert.False(t, v.HasTag(nil, "required"))
}
