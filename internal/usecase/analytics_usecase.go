package usecase

import (
	"context"

	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AnalyticsUsecase interface {
	GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type analyticsUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
}

func NewAnalyticsUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
) AnalyticsUsecase {
	return &analyticsUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
	}
}

// GetAnalytics loads the three collections concurrently. Department totals
// count stored appointments by doctorId, not the doctor's own id list.
func (u *analyticsUsecase) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	var (
		doctors       []entity.Doctor
		totalPatients int64
		appointments  []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctors, err = u.doctorRepo.FindAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		totalPatients, err = u.patientRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = u.appointmentRepo.FindAll(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load analytics data: %+v", err)
		return nil, err
	}

	byStatus := make(map[string]int, len(entity.AppointmentStatuses))
	for _, status := range entity.AppointmentStatuses {
		byStatus[string(status)] = 0
	}
	for _, a := range appointments {
		byStatus[string(a.Status)]++
	}

	byDoctor := make(map[string]int)
	for _, a := range appointments {
		byDoctor[a.DoctorID]++
	}
	byDepartment := make(map[string]int)
	for _, d := range doctors {
		byDepartment[d.Department] += byDoctor[d.ID]
	}

	return &dto.AnalyticsResponse{
		TotalDoctors:             len(doctors),
		TotalPatients:            totalPatients,
		TotalAppointments:        len(appointments),
		AppointmentsByStatus:     byStatus,
		AppointmentsByDepartment: byDepartment,
	}, nil
}
