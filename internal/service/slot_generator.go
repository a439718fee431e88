package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ayursetu-backend/internal/domain/entity"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidClock        = errors.New("invalid time, use HH:MM")
	ErrInvalidWorkingHours = errors.New("invalid working hours")
)

var weekdayAbbreviations = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ParseDate accepts only YYYY-MM-DD.
func ParseDate(date string) (time.Time, error) {
	if len(date) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseClock converts "HH:MM" (24h) to minutes since midnight.
func ParseClock(clock string) (int, error) {
	if len(clock) != len(ClockLayout) {
		return 0, ErrInvalidClock
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WeekdayAbbreviation returns Sun..Sat for t.
func WeekdayAbbreviation(t time.Time) string {
	return weekdayAbbreviations[t.Weekday()]
}

// IsWeekdayName reports whether name starts with a weekday abbreviation,
// ignoring case, so "mon", "Mon" and "Monday" all qualify.
func IsWeekdayName(name string) bool {
	for _, abbr := range weekdayAbbreviations {
		if sameWeekday(name, abbr) {
			return true
		}
	}
	return false
}

func sameWeekday(name, abbr string) bool {
	return len(name) >= 3 && strings.EqualFold(name[:3], abbr)
}

// WorksOn reports whether the doctor's working days include weekday.
func WorksOn(doctor *entity.Doctor, weekday string) bool {
	for _, day := range doctor.WorkingDays {
		if sameWeekday(day, weekday) {
			return true
		}
	}
	return false
}

// EffectiveSchedule applies the defaults for missing working hours and a
// non-positive slot length.
func EffectiveSchedule(doctor *entity.Doctor) (start, end string, slotMinutes int) {
	start, end = doctor.WorkingHours.Start, doctor.WorkingHours.End
	if start == "" {
		start = entity.DefaultWorkingStart
	}
	if end == "" {
		end = entity.DefaultWorkingEnd
	}
	slotMinutes = doctor.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = entity.DefaultSlotMinutes
	}
	return start, end, slotMinutes
}

// GenerateSlots enumerates the doctor's slots on date. A slot is available
// when none of booked occupies it. A day the doctor does not work yields an
// empty list.
func GenerateSlots(doctor *entity.Doctor, date string, booked []entity.Appointment) ([]entity.Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	slots := make([]entity.Slot, 0)
	if !WorksOn(doctor, WeekdayAbbreviation(day)) {
		return slots, nil
	}

	startClock, endClock, slotMinutes := EffectiveSchedule(doctor)
	start, err := ParseClock(startClock)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidWorkingHours, startClock)
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidWorkingHours, endClock)
	}

	taken := make(map[string]bool, len(booked))
	for i := range booked {
		if booked[i].Occupies(doctor.ID, date, booked[i].Time) {
			taken[booked[i].Time] = true
		}
	}

	for t := start; t+slotMinutes <= end; t += slotMinutes {
		clock := FormatClock(t)
		slots = append(slots, entity.Slot{
			Date:      date,
			Time:      clock,
			Available: !taken[clock],
		})
	}

	return slots, nil
}
