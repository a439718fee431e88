package entity

// DoctorFilter is a domain-level filter for listing doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Department string // exact match
	Query      string // case-insensitive substring of name or specialization
}

// AppointmentFilter narrows appointment listings; empty fields match all.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
}

// Matches reports whether a satisfies f.
func (f AppointmentFilter) Matches(a *Appointment) bool {
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	return true
}
