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
	ErrPatientNotFound = errors.New("patient not found")
)

type PatientUsecase interface {
	GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, id string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:          log,
		transactor:   transactor,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

// GetPatient lets staff read any record and patients only their own.
func (u *patientUsecase) GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error) {
	if err := authorizePatientAccess(ctx, id); err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// UpdatePatient merges the provided profile fields into the record.
func (u *patientUsecase) UpdatePatient(ctx context.Context, id string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := authorizePatientAccess(ctx, id); err != nil {
		return nil, err
	}

	var before, after entity.Patient
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		patient, err := u.patientRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		before = *patient

		applyPatientUpdate(patient, req)
		if err := u.patientRepo.Update(ctx, patient); err != nil {
			return err
		}
		after = *patient
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, auditUserID(ctx), entity.AuditActionPatientUpdate, "patient", id,
		converter.PatientToResponse(&before), converter.PatientToResponse(&after)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.PatientToResponse(&after), nil
}

func authorizePatientAccess(ctx context.Context, patientID string) error {
	caller, ok := actorFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if caller.role == entity.RolePatient && caller.userID != patientID {
		return ErrForbidden
	}
	return nil
}

func applyPatientUpdate(patient *entity.Patient, req *dto.UpdatePatientRequest) {
	if req.Name != nil {
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		patient.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Age != nil {
		age := *req.Age
		patient.Age = &age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = entity.StringList(append([]string{}, req.MedicalHistory...))
	}
	if req.Allergies != nil {
		patient.Allergies = entity.StringList(append([]string{}, req.Allergies...))
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = entity.EmergencyContact{
			Name:     req.EmergencyContact.Name,
			Phone:    req.EmergencyContact.Phone,
			Relation: req.EmergencyContact.Relation,
		}
	}
}
