package converter

import (
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.ID,
		UserID:         patient.UserID,
		Name:           patient.Name,
		Email:          patient.Email,
		Phone:          patient.Phone,
		Age:            patient.Age,
		Gender:         patient.Gender,
		Address:        patient.Address,
		MedicalHistory: stringList(patient.MedicalHistory),
		Allergies:      stringList(patient.Allergies),
		EmergencyContact: dto.EmergencyContactResponse{
			Name:     patient.EmergencyContact.Name,
			Phone:    patient.EmergencyContact.Phone,
			Relation: patient.EmergencyContact.Relation,
		},
		Appointments: stringList(patient.Appointments),
		CreatedAt:    patient.CreatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
