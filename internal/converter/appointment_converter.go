package converter

import (
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:           appointment.ID,
		PatientID:    appointment.PatientID,
		PatientName:  appointment.PatientName,
		PatientEmail: appointment.PatientEmail,
		PatientPhone: appointment.PatientPhone,
		DoctorID:     appointment.DoctorID,
		DoctorName:   appointment.DoctorName,
		Department:   appointment.Department,
		Date:         appointment.Date,
		Time:         appointment.Time,
		Status:       string(appointment.Status),
		Fee:          appointment.Fee,
		Reason:       appointment.Reason,
		Notes:        appointment.Notes,
		CreatedAt:    appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
