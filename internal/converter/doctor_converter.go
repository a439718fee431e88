package converter

import (
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		UserID:         doctor.UserID,
		Name:           doctor.Name,
		Email:          doctor.Email,
		Phone:          doctor.Phone,
		Bio:            doctor.Bio,
		Department:     doctor.Department,
		Specialization: doctor.Specialization,
		Qualifications: stringList(doctor.Qualifications),
		WorkingDays:    stringList(doctor.WorkingDays),
		WorkingHours: dto.WorkingHoursResponse{
			Start: doctor.WorkingHours.Start,
			End:   doctor.WorkingHours.End,
		},
		SlotMinutes:     doctor.SlotMinutes,
		ConsultationFee: doctor.ConsultationFee,
		Appointments:    stringList(doctor.Appointments),
		Status:          doctor.Status,
		Rating:          doctor.Rating,
		CreatedAt:       doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func SlotsToResponses(slots []entity.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.SlotResponse{
			Date:      slot.Date,
			Time:      slot.Time,
			Available: slot.Available,
		}
	}
	return responses
}

// stringList never returns nil so lists encode as [].
func stringList(l entity.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}
