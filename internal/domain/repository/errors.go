package repository

import "errors"

var (
	// ErrDuplicateKey is returned when a record with the same unique key
	// already exists.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrSlotTaken is returned by AppointmentRepository.Create when another
	// non-cancelled appointment already holds the doctor slot.
	ErrSlotTaken = errors.New("slot already taken")
)
