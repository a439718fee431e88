package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ayursetu-backend/internal/converter"
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrAppointmentDoctorNotFound = errors.New("doctor not found")
	ErrSlotConflict              = errors.New("time slot already booked")
	ErrInvalidTime               = errors.New("invalid time, use HH:MM")
	ErrStatusRequired            = errors.New("status required")
	ErrInvalidStatus             = errors.New("invalid status")
)

// maxCreateAttempts bounds retries of a booking whose generated id or new
// patient record collided with a concurrent booking.
const maxCreateAttempts = 3

type AppointmentUsecase interface {
	GetAllAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id string) (*dto.AppointmentResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID string) (*dto.AppointmentListResponse, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointmentStatus(ctx context.Context, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id string) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	slotLocker      service.SlotLocker
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	slotLocker service.SlotLocker,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		slotLocker:      slotLocker,
		auditService:    auditService,
		now:             time.Now,
	}
}

// GetAllAppointments returns appointments in booking order, optionally
// narrowed to one patient and/or doctor. Patients and doctors only ever see
// their own.
func (u *appointmentUsecase) GetAllAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	filter, err := scopeAppointmentFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := authorizeAppointment(ctx, appointment.PatientID, appointment.DoctorID); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID string) (*dto.AppointmentListResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	caller, ok := actorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !caller.owns(doctorID) {
		return nil, ErrForbidden
	}

	return u.GetAllAppointments(ctx, &entity.AppointmentFilter{DoctorID: doctorID})
}

// CreateAppointment books a doctor slot.
//
// Flow:
// 1. Validate date and time format and check the caller may book for this patient and doctor
// 2. Take the slot lock so concurrent requests for one slot run one at a time
// 3. In one transaction: check the doctor and refuse a taken slot
// 4. Insert the appointment and append its id to the doctor and patient lists
// 5. Create the patient record on first booking when none exists
// 6. Retry the transaction when a generated key collided with a concurrent booking
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if _, err := service.ParseDate(req.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := service.ParseClock(req.Time); err != nil {
		return nil, ErrInvalidTime
	}
	if req.Fee != nil && req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}
	if err := authorizeAppointment(ctx, req.PatientID, req.DoctorID); err != nil {
		return nil, err
	}

	unlock, err := u.slotLocker.Lock(ctx, service.SlotKey(req.DoctorID, req.Date, req.Time))
	if err != nil {
		if errors.Is(err, service.ErrSlotBusy) {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to lock slot %s %s %s: %+v", req.DoctorID, req.Date, req.Time, err)
		return nil, err
	}
	defer unlock()

	var created *entity.Appointment
	for attempt := 1; ; attempt++ {
		created, err = u.createInTransaction(ctx, req)
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt == maxCreateAttempts {
			break
		}
		u.log.Debugf("Appointment key collided on attempt %d, retrying", attempt)
	}
	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrAppointmentDoctorNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	response := converter.AppointmentToResponse(created)
	if err := u.auditService.LogCreate(ctx, auditUserID(ctx), entity.AuditActionAppointmentCreate, "appointment", created.ID, response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	u.log.WithFields(logrus.Fields{
		"appointment_id": created.ID,
		"doctor_id":      created.DoctorID,
		"date":           created.Date,
		"time":           created.Time,
	}).Info("Appointment created")

	return response, nil
}

func (u *appointmentUsecase) createInTransaction(ctx context.Context, req *dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	var created *entity.Appointment
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := u.doctorRepo.FindByID(ctx, req.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrAppointmentDoctorNotFound
		}

		taken, err := u.appointmentRepo.ExistsActive(ctx, req.DoctorID, req.Date, req.Time)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		now := u.now().UTC()
		id, err := nextTimestampID(ctx, "a_", now, u.appointmentExists)
		if err != nil {
			return err
		}

		appointment := newAppointment(id, req, doctor, now)
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrSlotConflict
			}
			return err
		}

		doctor.Appointments = append(doctor.Appointments, id)
		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			return err
		}

		if err := u.attachToPatient(ctx, req, id, now); err != nil {
			return err
		}

		created = appointment
		return nil
	})
	return created, err
}

// UpdateAppointmentStatus sets any known status. Transitions are not checked,
// but a patient may only cancel.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		return nil, ErrStatusRequired
	}
	if !status.IsKnown() {
		return nil, ErrInvalidStatus
	}

	var oldStatus entity.AppointmentStatus
	var updated *entity.Appointment
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		appointment, err := u.appointmentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if err := authorizeAppointment(ctx, appointment.PatientID, appointment.DoctorID); err != nil {
			return err
		}
		if caller, _ := actorFromContext(ctx); caller.role == entity.RolePatient && status != entity.AppointmentStatusCancelled {
			return ErrForbidden
		}
		oldStatus = appointment.Status

		affected, err := u.appointmentRepo.UpdateStatus(ctx, id, status)
		if err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrSlotConflict
			}
			return err
		}
		if affected == 0 {
			return ErrAppointmentNotFound
		}

		appointment.Status = status
		updated = appointment
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrSlotConflict) || isAccessError(err) {
			return nil, err
		}
		u.log.Warnf("Failed to update status of appointment %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, auditUserID(ctx), entity.AuditActionAppointmentStatus, "appointment", id, string(oldStatus), string(status)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.AppointmentToResponse(updated), nil
}

// DeleteAppointment removes the appointment and its id from the owning
// doctor's and patient's lists.
func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id string) error {
	var deleted *entity.Appointment
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		appointment, err := u.appointmentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if err := authorizeAppointment(ctx, appointment.PatientID, appointment.DoctorID); err != nil {
			return err
		}

		affected, err := u.appointmentRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAppointmentNotFound
		}

		doctor, err := u.doctorRepo.FindByID(ctx, appointment.DoctorID)
		if err != nil {
			return err
		}
		if doctor != nil && doctor.Appointments.Contains(id) {
			doctor.Appointments = doctor.Appointments.Without(id)
			if err := u.doctorRepo.Update(ctx, doctor); err != nil {
				return err
			}
		}

		patient, err := u.patientRepo.FindByID(ctx, appointment.PatientID)
		if err != nil {
			return err
		}
		if patient != nil && patient.Appointments.Contains(id) {
			patient.Appointments = patient.Appointments.Without(id)
			if err := u.patientRepo.Update(ctx, patient); err != nil {
				return err
			}
		}

		deleted = appointment
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || isAccessError(err) {
			return err
		}
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, auditUserID(ctx), entity.AuditActionAppointmentDelete, "appointment", id, converter.AppointmentToResponse(deleted)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *appointmentUsecase) attachToPatient(ctx context.Context, req *dto.CreateAppointmentRequest, appointmentID string, now time.Time) error {
	patient, err := u.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		return err
	}

	if patient == nil {
		return u.patientRepo.Create(ctx, &entity.Patient{
			ID:             req.PatientID,
			Name:           req.PatientName,
			Email:          req.PatientEmail,
			Phone:          req.PatientPhone,
			MedicalHistory: entity.StringList{},
			Allergies:      entity.StringList{},
			Appointments:   entity.StringList{appointmentID},
			CreatedAt:      now,
		})
	}

	patient.Appointments = append(patient.Appointments, appointmentID)
	return u.patientRepo.Update(ctx, patient)
}

func (u *appointmentUsecase) appointmentExists(ctx context.Context, id string) (bool, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	return appointment != nil, err
}

// newAppointment fills doctor name, department and fee from the doctor when
// the request leaves them out.
func newAppointment(id string, req *dto.CreateAppointmentRequest, doctor *entity.Doctor, now time.Time) *entity.Appointment {
	appointment := &entity.Appointment{
		ID:           id,
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		DoctorID:     req.DoctorID,
		DoctorName:   req.DoctorName,
		Department:   req.Department,
		Date:         req.Date,
		Time:         req.Time,
		Status:       entity.AppointmentStatusPending,
		Fee:          doctor.ConsultationFee,
		Reason:       req.Reason,
		Notes:        req.Notes,
		CreatedAt:    now,
	}

	if appointment.DoctorName == "" {
		appointment.DoctorName = doctor.Name
	}
	if appointment.Department == "" {
		appointment.Department = doctor.Department
	}
	if req.Fee != nil {
		appointment.Fee = *req.Fee
	}

	return appointment
}

// authorizeAppointment allows admins, the appointment's patient and its doctor.
func authorizeAppointment(ctx context.Context, patientID, doctorID string) error {
	caller, ok := actorFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	switch caller.role {
	case entity.RoleAdmin:
		return nil
	case entity.RolePatient:
		if caller.userID == patientID {
			return nil
		}
	case entity.RoleDoctor:
		if caller.userID == doctorID {
			return nil
		}
	}
	return ErrForbidden
}

// scopeAppointmentFilter pins a listing to the caller's own patient or doctor
// id. Asking for someone else's is forbidden.
func scopeAppointmentFilter(ctx context.Context, filter *entity.AppointmentFilter) (*entity.AppointmentFilter, error) {
	caller, ok := actorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var scoped entity.AppointmentFilter
	if filter != nil {
		scoped = *filter
	}

	switch caller.role {
	case entity.RoleAdmin:
	case entity.RolePatient:
		if scoped.PatientID != "" && scoped.PatientID != caller.userID {
			return nil, ErrForbidden
		}
		scoped.PatientID = caller.userID
	case entity.RoleDoctor:
		if scoped.DoctorID != "" && scoped.DoctorID != caller.userID {
			return nil, ErrForbidden
		}
		scoped.DoctorID = caller.userID
	default:
		return nil, ErrForbidden
	}
	return &scoped, nil
}

func isAccessError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrForbidden)
}
