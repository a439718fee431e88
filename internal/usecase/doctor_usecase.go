package usecase

import (
	"context"
	"errors"
	"strings"

	"ayursetu-backend/internal/converter"
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDateRequired      = errors.New("date query param required (YYYY-MM-DD)")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidSchedule   = errors.New("working hours start must be before end")
	ErrInvalidFee        = errors.New("consultation fee must not be negative")
	ErrInvalidWorkingDay = errors.New("working days must be weekday names")
)

type DoctorUsecase interface {
	GetAllDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id string) (*dto.DoctorResponse, error)
	GetAvailableSlots(ctx context.Context, id, date string) (*dto.AvailableSlotsResponse, error)
	UpdateDoctor(ctx context.Context, id string, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:             log,
		transactor:      transactor,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id string) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// GetAvailableSlots lists the doctor's slots on date with their availability.
func (u *doctorUsecase) GetAvailableSlots(ctx context.Context, id, date string) (*dto.AvailableSlotsResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	date = strings.TrimSpace(date)
	if date == "" {
		return nil, ErrDateRequired
	}
	if _, err := service.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, id, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor %s on %s: %+v", id, date, err)
		return nil, err
	}

	slots, err := service.GenerateSlots(doctor, date, booked)
	if err != nil {
		u.log.Errorf("Failed to generate slots for doctor %s: %+v", id, err)
		return nil, err
	}

	return &dto.AvailableSlotsResponse{
		DoctorID: id,
		Date:     date,
		Slots:    converter.SlotsToResponses(slots),
	}, nil
}

// UpdateDoctor applies a partial profile update. Doctors may only update
// their own profile.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id string, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	caller, ok := actorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !caller.owns(id) {
		return nil, ErrForbidden
	}
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, ErrInvalidFee
	}

	var before, after entity.Doctor
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := u.doctorRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		before = *doctor

		applyDoctorUpdate(doctor, req)
		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			return err
		}
		after = *doctor
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, caller.userID, entity.AuditActionDoctorUpdate, "doctor", id,
		converter.DoctorToResponse(&before), converter.DoctorToResponse(&after)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.DoctorToResponse(&after), nil
}

// UpdateSchedule replaces working days, hours and slot length. Existing
// appointments are kept even if they fall outside the new schedule.
func (u *doctorUsecase) UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest) (*dto.DoctorResponse, error) {
	caller, ok := actorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !caller.owns(id) {
		return nil, ErrForbidden
	}

	start, err := service.ParseClock(req.WorkingHours.Start)
	if err != nil {
		return nil, ErrInvalidSchedule
	}
	end, err := service.ParseClock(req.WorkingHours.End)
	if err != nil || start >= end {
		return nil, ErrInvalidSchedule
	}
	for _, day := range req.WorkingDays {
		if !service.IsWeekdayName(day) {
			return nil, ErrInvalidWorkingDay
		}
	}

	var before, after entity.Doctor
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := u.doctorRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		before = *doctor

		doctor.WorkingDays = entity.StringList(append([]string{}, req.WorkingDays...))
		doctor.WorkingHours = entity.WorkingHours{Start: req.WorkingHours.Start, End: req.WorkingHours.End}
		doctor.SlotMinutes = req.SlotMinutes
		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			return err
		}
		after = *doctor
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to update schedule of doctor %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, caller.userID, entity.AuditActionDoctorScheduleSave, "doctor", id,
		scheduleSnapshot(&before), scheduleSnapshot(&after)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.DoctorToResponse(&after), nil
}

func applyDoctorUpdate(doctor *entity.Doctor, req *dto.UpdateDoctorRequest) {
	if req.Name != nil {
		doctor.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.Department != nil {
		doctor.Department = strings.TrimSpace(*req.Department)
	}
	if req.Specialization != nil {
		doctor.Specialization = strings.TrimSpace(*req.Specialization)
	}
	if req.Qualifications != nil {
		doctor.Qualifications = entity.StringList(append([]string{}, req.Qualifications...))
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Status != nil {
		doctor.Status = *req.Status
	}
}

func scheduleSnapshot(doctor *entity.Doctor) entity.JSON {
	return entity.JSON{
		"workingDays":  doctor.WorkingDays,
		"workingHours": doctor.WorkingHours,
		"slotMinutes":  doctor.SlotMinutes,
	}
}
