package jsonstore

import (
	"context"
	"io"
	"testing"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *filestore.Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := filestore.NewStore(afero.NewMemMapFs(), "/data", log)
	require.NoError(t, err)
	return store
}

func TestAppointmentRepository_CreateRejectsTakenSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newStore(t))

	first := &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusPending}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.Appointment{ID: "a_2", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusPending}
	assert.ErrorIs(t, repo.Create(ctx, second), domainRepo.ErrSlotTaken)

	duplicate := &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "10:00"}
	assert.ErrorIs(t, repo.Create(ctx, duplicate), domainRepo.ErrDuplicateKey)
}

func TestAppointmentRepository_CancelledSlotCanBeRebooked(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusPending}))

	exists, err := repo.ExistsActive(ctx, "d1", "2025-01-06", "09:00")
	require.NoError(t, err)
	assert.True(t, exists)

	affected, err := repo.UpdateStatus(ctx, "a_1", entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	exists, err = repo.ExistsActive(ctx, "d1", "2025-01-06", "09:00")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &entity.Appointment{ID: "a_2", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusPending}))
}

func TestAppointmentRepository_FindAllFiltersInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newStore(t))

	seed := []entity.Appointment{
		{ID: "a_1", PatientID: "p1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00"},
		{ID: "a_2", PatientID: "p2", DoctorID: "d1", Date: "2025-01-06", Time: "09:30"},
		{ID: "a_3", PatientID: "p1", DoctorID: "d2", Date: "2025-01-06", Time: "09:00"},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	tests := []struct {
		name   string
		filter *entity.AppointmentFilter
		want   []string
	}{
		{"no filter", nil, []string{"a_1", "a_2", "a_3"}},
		{"by patient", &entity.AppointmentFilter{PatientID: "p1"}, []string{"a_1", "a_3"}},
		{"by doctor", &entity.AppointmentFilter{DoctorID: "d1"}, []string{"a_1", "a_2"}},
		{"both", &entity.AppointmentFilter{PatientID: "p1", DoctorID: "d2"}, []string{"a_3"}},
		{"none", &entity.AppointmentFilter{PatientID: "p9"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAppointmentRepository_DeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newStore(t))
	require.NoError(t, repo.Create(ctx, &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Fee: decimal.NewFromInt(500)}))

	found, err := repo.FindByID(ctx, "a_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, decimal.NewFromInt(500).Equal(found.Fee))

	affected, err := repo.Delete(ctx, "a_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, "a_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	found, err = repo.FindByID(ctx, "a_1")
	require.NoError(t, err)
	assert.Nil(t, found)

	affected, err = repo.UpdateStatus(ctx, "a_1", entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDoctorRepository_FindAllFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewDoctorRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &entity.Doctor{ID: "d1", Name: "Dr. Asha Rao", Department: "Panchakarma", Specialization: "Detox"}))
	require.NoError(t, repo.Create(ctx, &entity.Doctor{ID: "d2", Name: "Dr. Vikram", Department: "Kayachikitsa", Specialization: "Internal Medicine"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Doctor{ID: "d1"}), domainRepo.ErrDuplicateKey)

	tests := []struct {
		name   string
		filter *entity.DoctorFilter
		want   []string
	}{
		{"all", nil, []string{"d1", "d2"}},
		{"department", &entity.DoctorFilter{Department: "Panchakarma"}, []string{"d1"}},
		{"query on name", &entity.DoctorFilter{Query: "asha"}, []string{"d1"}},
		{"query on specialization", &entity.DoctorFilter{Query: "MEDICINE"}, []string{"d2"}},
		{"department and query mismatch", &entity.DoctorFilter{Department: "Panchakarma", Query: "vikram"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDoctorRepository_UpdateKeepsListsAsArrays(t *testing.T) {
	ctx := context.Background()
	repo := NewDoctorRepository(newStore(t))
	require.NoError(t, repo.Create(ctx, &entity.Doctor{ID: "d1", Name: "Dr. Asha"}))

	doctor, err := repo.FindByID(ctx, "d1")
	require.NoError(t, err)
	doctor.Appointments = append(doctor.Appointments, "a_1")
	require.NoError(t, repo.Update(ctx, doctor))

	doctor, err = repo.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.StringList{"a_1"}, doctor.Appointments)
	assert.Empty(t, doctor.Qualifications)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPatientRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(newStore(t))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	require.NoError(t, repo.Create(ctx, &entity.Patient{ID: "p1", Name: "Meera"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Patient{ID: "p1"}), domainRepo.ErrDuplicateKey)

	patient, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	patient.Phone = "9999"
	require.NoError(t, repo.Update(ctx, patient))

	patient, err = repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "9999", patient.Phone)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u_patient_1", Email: "meera@example.com", Role: entity.RolePatient}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u_patient_2", Email: "Meera@Example.com"}), domainRepo.ErrDuplicateKey)

	user, err := repo.FindByEmail(ctx, "MEERA@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u_patient_1", user.ID)

	user, err = repo.FindByID(ctx, "u_patient_1")
	require.NoError(t, err)
	require.NotNil(t, user)

	user, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuditLogRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditLogRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &entity.AuditLog{ID: "l1", Action: entity.AuditActionUserLogin}))
	require.NoError(t, repo.Create(ctx, &entity.AuditLog{ID: "l2", Action: entity.AuditActionUserLogout}))

	logs, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "l2", logs[0].ID)

	log, err := repo.FindByID(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, entity.AuditActionUserLogin, log.Action)
}

func TestRepositories_ShareTransaction(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doctors := NewDoctorRepository(store)
	appointments := NewAppointmentRepository(store)

	require.NoError(t, doctors.Create(ctx, &entity.Doctor{ID: "d1"}))

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := appointments.Create(ctx, &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00"}); err != nil {
			return err
		}
		doctor, err := doctors.FindByID(ctx, "d1")
		if err != nil {
			return err
		}
		doctor.Appointments = append(doctor.Appointments, "a_1")
		if err := doctors.Update(ctx, doctor); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	found, err := appointments.FindByID(ctx, "a_1")
	require.NoError(t, err)
	assert.Nil(t, found)

	doctor, err := doctors.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, doctor.Appointments)
}

func TestAppointmentRepository_ReactivationNeedsFreeSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &entity.Appointment{ID: "a_1", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusCancelled}))
	require.NoError(t, repo.Create(ctx, &entity.Appointment{ID: "a_2", DoctorID: "d1", Date: "2025-01-06", Time: "09:00", Status: entity.AppointmentStatusPending}))

	_, err := repo.UpdateStatus(ctx, "a_1", entity.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, domainRepo.ErrSlotTaken)

	affected, err := repo.UpdateStatus(ctx, "a_2", entity.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}
