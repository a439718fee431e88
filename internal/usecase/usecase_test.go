package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"ayursetu-backend/config"
	"ayursetu-backend/internal/delivery/http/middleware"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
	"ayursetu-backend/internal/repository/jsonstore"
	"ayursetu-backend/internal/service"
	"ayursetu-backend/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testEnv wires every use case over an in-memory JSON store.
type testEnv struct {
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	auditLogRepo    repository.AuditLogRepository
	tokenStore      service.TokenStore
	jwtService      *jwt.JWTService
	store           *filestore.Store
	locker          service.SlotLocker
	auditService    service.AuditService

	auth         AuthUsecase
	doctors      DoctorUsecase
	appointments AppointmentUsecase
	patients     PatientUsecase
	analytics    AnalyticsUsecase
	auditLogs    AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := filestore.NewStore(afero.NewMemMapFs(), "/data", log)
	require.NoError(t, err)

	locker := service.NewLocalSlotLocker(log)
	t.Cleanup(locker.Stop)

	env := &testEnv{
		doctorRepo:      jsonstore.NewDoctorRepository(store),
		patientRepo:     jsonstore.NewPatientRepository(store),
		appointmentRepo: jsonstore.NewAppointmentRepository(store),
		userRepo:        jsonstore.NewUserRepository(store),
		auditLogRepo:    jsonstore.NewAuditLogRepository(store),
		tokenStore:      service.NewMemoryTokenStore(),
		jwtService:      jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour}),
		store:           store,
		locker:          locker,
	}
	auditService := service.NewAuditService(log, env.auditLogRepo)
	env.auditService = auditService

	env.auth = NewAuthUsecase(log, store, env.userRepo, env.doctorRepo, env.patientRepo, env.jwtService, env.tokenStore, auditService)
	env.doctors = NewDoctorUsecase(log, store, env.doctorRepo, env.appointmentRepo, auditService)
	env.appointments = NewAppointmentUsecase(log, store, env.appointmentRepo, env.doctorRepo, env.patientRepo, locker, auditService)
	env.patients = NewPatientUsecase(log, store, env.patientRepo, auditService)
	env.analytics = NewAnalyticsUsecase(log, env.doctorRepo, env.patientRepo, env.appointmentRepo)
	env.auditLogs = NewAuditLogUsecase(log, env.auditLogRepo)
	return env
}

func (e *testEnv) seedDoctor(t *testing.T, id, department string) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		ID:              id,
		UserID:          id,
		Name:            "Dr. " + id,
		Department:      department,
		Specialization:  "General",
		WorkingDays:     entity.StringList{"Mon", "Tue", "Wed", "Thu", "Fri"},
		WorkingHours:    entity.WorkingHours{Start: "09:00", End: "17:00"},
		SlotMinutes:     30,
		ConsultationFee: decimal.NewFromInt(500),
		Appointments:    entity.StringList{},
		Status:          entity.DoctorStatusActive,
	}
	require.NoError(t, e.doctorRepo.Create(context.Background(), doctor))
	return doctor
}

func asUser(userID, role string) context.Context {
	return middleware.WithIdentity(context.Background(), userID, userID+"@example.com", role, "tok-"+userID)
}

func asAdmin() context.Context {
	return asUser("u_admin_1", entity.RoleAdmin)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
