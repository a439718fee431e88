package service

import (
	"testing"

	"ayursetu-backend/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-06 is a Monday, 2025-01-05 a Sunday.
const (
	monday = "2025-01-06"
	sunday = "2025-01-05"
)

func weekdayDoctor() *entity.Doctor {
	return &entity.Doctor{
		ID:           "d1",
		WorkingDays:  entity.StringList{"Mon", "Tue", "Wed", "Thu", "Fri"},
		WorkingHours: entity.WorkingHours{Start: "09:00", End: "17:00"},
		SlotMinutes:  30,
	}
}

func TestGenerateSlots_FullDay(t *testing.T) {
	slots, err := GenerateSlots(weekdayDoctor(), monday, nil)
	require.NoError(t, err)

	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "16:30", slots[15].Time)
	for _, s := range slots {
		assert.Equal(t, monday, s.Date)
		assert.True(t, s.Available)
	}
}

func TestGenerateSlots_NonWorkingDayIsEmpty(t *testing.T) {
	slots, err := GenerateSlots(weekdayDoctor(), sunday, nil)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlots_BookedAndCancelled(t *testing.T) {
	booked := []entity.Appointment{
		{ID: "a_1", DoctorID: "d1", Date: monday, Time: "09:30", Status: entity.AppointmentStatusPending},
		{ID: "a_2", DoctorID: "d1", Date: monday, Time: "10:00", Status: entity.AppointmentStatusCancelled},
		{ID: "a_3", DoctorID: "d1", Date: monday, Time: "11:00", Status: entity.AppointmentStatusRejected},
		{ID: "a_4", DoctorID: "d2", Date: monday, Time: "12:00", Status: entity.AppointmentStatusConfirmed},
	}

	slots, err := GenerateSlots(weekdayDoctor(), monday, booked)
	require.NoError(t, err)

	availability := make(map[string]bool, len(slots))
	for _, s := range slots {
		availability[s.Time] = s.Available
	}
	assert.False(t, availability["09:30"])
	assert.True(t, availability["10:00"])
	assert.False(t, availability["11:00"])
	assert.True(t, availability["12:00"])
	assert.True(t, availability["09:00"])
}

func TestGenerateSlots_Defaults(t *testing.T) {
	doctor := &entity.Doctor{ID: "d1", WorkingDays: entity.StringList{"Monday"}}

	slots, err := GenerateSlots(doctor, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestGenerateSlots_CustomLengthDropsPartialSlot(t *testing.T) {
	doctor := weekdayDoctor()
	doctor.WorkingHours = entity.WorkingHours{Start: "10:00", End: "12:00"}
	doctor.SlotMinutes = 45

	slots, err := GenerateSlots(doctor, monday, nil)
	require.NoError(t, err)

	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{"10:00", "10:45"}, times)
}

func TestGenerateSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		doctor  *entity.Doctor
		wantErr error
	}{
		{"not a date", "tomorrow", weekdayDoctor(), ErrInvalidDate},
		{"impossible date", "2025-02-30", weekdayDoctor(), ErrInvalidDate},
		{"short date", "2025-1-6", weekdayDoctor(), ErrInvalidDate},
		{"bad working hours", monday, &entity.Doctor{WorkingDays: entity.StringList{"Mon"}, WorkingHours: entity.WorkingHours{Start: "9am", End: "17:00"}}, ErrInvalidWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSlots(tt.doctor, tt.date, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWorksOn_MatchesCaseInsensitively(t *testing.T) {
	doctor := &entity.Doctor{WorkingDays: entity.StringList{"monday", "WED", "Fr"}}

	assert.True(t, WorksOn(doctor, "Mon"))
	assert.True(t, WorksOn(doctor, "Wed"))
	assert.False(t, WorksOn(doctor, "Fri"))
	assert.False(t, WorksOn(doctor, "Tue"))
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("16:30")
	require.NoError(t, err)
	assert.Equal(t, 990, minutes)
	assert.Equal(t, "16:30", FormatClock(minutes))

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}
