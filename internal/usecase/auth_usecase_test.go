package usecase

import (
	"context"
	"testing"
	"time"

	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/delivery/http/middleware"
	"ayursetu-backend/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthUsecase_RegisterPatient(t *testing.T) {
	env := newTestEnv(t)
	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	env.auth.(*authUsecase).now = fixedClock(at)
	ctx := context.Background()
	age := 31

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Email:    "Priya@Example.com",
		Password: "secret123",
		Name:     "Priya",
		Role:     "patient",
		Age:      &age,
	})
	require.NoError(t, err)

	assert.Equal(t, "u_patient_1735718400000", resp.ID)
	assert.Equal(t, "priya@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	patient, err := env.patientRepo.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, resp.ID, patient.UserID)
	require.NotNil(t, patient.Age)
	assert.Equal(t, 31, *patient.Age)

	claims, err := env.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	exists, err := env.tokenStore.Exists(ctx, resp.ID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAuthUsecase_RegisterDoctorGetsDefaultSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Email:          "ravi@example.com",
		Password:       "secret123",
		Name:           "Ravi",
		Role:           "doctor",
		Specialization: "Panchakarma",
		Department:     "Ayurveda",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^u_doctor_\d+$`, resp.ID)

	doctor, err := env.doctorRepo.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, entity.StringList{"Mon", "Tue", "Wed", "Thu", "Fri"}, doctor.WorkingDays)
	assert.Equal(t, entity.WorkingHours{Start: "09:00", End: "17:00"}, doctor.WorkingHours)
	assert.Equal(t, 30, doctor.SlotMinutes)
	assert.Equal(t, entity.DoctorStatusActive, doctor.Status)
}

func TestAuthUsecase_RegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "Asha", Role: "patient"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *dto.RegisterRequest
		wantErr error
	}{
		{
			name:    "email taken in another case",
			req:     &dto.RegisterRequest{Email: "A@example.com", Password: "secret123", Name: "Asha", Role: "patient"},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name:    "admin cannot self register",
			req:     &dto.RegisterRequest{Email: "b@example.com", Password: "secret123", Name: "Boss", Role: "admin"},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "doctor without department",
			req:     &dto.RegisterRequest{Email: "c@example.com", Password: "secret123", Name: "Chitra", Role: "doctor", Specialization: "Rasayana"},
			wantErr: ErrDoctorProfileRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthUsecase_LoginAndLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "Asha", Role: "patient"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	loggedIn, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)

	claims, err := env.jwtService.ValidateToken(loggedIn.Token)
	require.NoError(t, err)
	authed := middleware.WithIdentity(ctx, claims.UserID, claims.Email, claims.Role, claims.TokenID)

	me, err := env.auth.GetCurrentUser(authed)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)

	require.NoError(t, env.auth.Logout(authed))
	exists, err := env.tokenStore.Exists(ctx, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, env.auth.Logout(ctx), ErrUnauthenticated)
}

func TestAuthUsecase_EnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.EnsureAdmin(ctx, "", "", "Admin"))
	_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.auth.EnsureAdmin(ctx, "Admin@Example.com", "adminpass", "Admin"))
	require.NoError(t, env.auth.EnsureAdmin(ctx, "admin@example.com", "other", "Admin"))

	resp, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Regexp(t, `^u_admin_\d+$`, resp.ID)
}

func TestAuthUsecase_RegisterWithoutNameUsesEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &dto.RegisterRequest{Email: "nameless@example.com", Password: "secret123", Role: "patient"})
	require.NoError(t, err)
	assert.Equal(t, "nameless@example.com", registered.Name)

	patient, err := env.patientRepo.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "nameless@example.com", patient.Name)
}
