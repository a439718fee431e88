package dto

import "time"

// Request DTOs

type EmergencyContactRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Relation string `json:"relation" validate:"omitempty,max=50"`
}

// UpdatePatientRequest merges the given profile fields into the record. Ids
// and the appointment list cannot be changed through it.
type UpdatePatientRequest struct {
	Name             *string                  `json:"name" validate:"omitempty,min=2"`
	Email            *string                  `json:"email" validate:"omitempty,email"`
	Phone            *string                  `json:"phone" validate:"omitempty,max=20"`
	Age              *int                     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender           *string                  `json:"gender" validate:"omitempty,max=20"`
	Address          *string                  `json:"address"`
	MedicalHistory   []string                 `json:"medicalHistory"`
	Allergies        []string                 `json:"allergies"`
	EmergencyContact *EmergencyContactRequest `json:"emergencyContact"`
}

// Response DTOs

type EmergencyContactResponse struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

type PatientResponse struct {
	ID               string                   `json:"id"`
	UserID           string                   `json:"userId,omitempty"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone"`
	Age              *int                     `json:"age,omitempty"`
	Gender           string                   `json:"gender,omitempty"`
	Address          string                   `json:"address,omitempty"`
	MedicalHistory   []string                 `json:"medicalHistory"`
	Allergies        []string                 `json:"allergies"`
	EmergencyContact EmergencyContactResponse `json:"emergencyContact"`
	Appointments     []string                 `json:"appointments"`
	CreatedAt        time.Time                `json:"createdAt"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
