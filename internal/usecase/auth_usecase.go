package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ayursetu-backend/internal/converter"
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/delivery/http/middleware"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/service"
	"ayursetu-backend/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidRole           = errors.New("role must be doctor or patient")
	ErrDoctorProfileRequired = errors.New("specialization and department are required for doctors")
	ErrUserNotFound          = errors.New("user not found")
)

const defaultDoctorRating = 5

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password, name string) error
}

type authUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	patientRepo  repository.PatientRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
	now          func() time.Time
}

func NewAuthUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		transactor:   transactor,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		patientRepo:  patientRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
		now:          time.Now,
	}
}

// Register creates the user and its doctor or patient profile in one unit of
// work. The profile shares the user id. A missing name falls back to the email.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !entity.IsSelfRegistrable(role) {
		return nil, ErrInvalidRole
	}
	if role == entity.RoleDoctor && (strings.TrimSpace(req.Specialization) == "" || strings.TrimSpace(req.Department) == "") {
		return nil, ErrDoctorProfileRequired
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	now := u.now().UTC()
	var user *entity.User

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := nextTimestampID(ctx, "u_"+role+"_", now, u.userExists)
		if err != nil {
			return err
		}

		user = &entity.User{
			ID:           id,
			Email:        email,
			Name:         name,
			PasswordHash: string(hashedPassword),
			Role:         role,
			CreatedAt:    now,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		if role == entity.RoleDoctor {
			return u.doctorRepo.Create(ctx, newDoctorProfile(user, req))
		}
		return u.patientRepo.Create(ctx, newPatientProfile(user, req))
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		u.log.Warnf("Failed to register user: %+v", err)
		return nil, err
	}

	resp, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserRegister, "user", user.ID, converter.UserToResponse(user)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("User registered")

	return resp, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserLogin, "user", user.ID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

// Logout revokes the token the request was authenticated with.
func (u *authUsecase) Logout(ctx context.Context) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if err := u.tokenStore.Delete(ctx, userID, tokenID); err != nil {
		u.log.Warnf("Failed to revoke token: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, userID, entity.AuditActionUserLogout, "token", tokenID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// EnsureAdmin creates the admin account if no user holds email yet. Empty
// credentials disable seeding.
func (u *authUsecase) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		u.log.Info("Admin seeding skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			u.log.Warnf("Admin seeding skipped: %s belongs to a %s account", email, existing.Role)
		}
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := u.now().UTC()
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := nextTimestampID(ctx, "u_"+entity.RoleAdmin+"_", now, u.userExists)
		if err != nil {
			return err
		}
		return u.userRepo.Create(ctx, &entity.User{
			ID:           id,
			Email:        email,
			Name:         name,
			PasswordHash: string(hashedPassword),
			Role:         entity.RoleAdmin,
			CreatedAt:    now,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to seed admin user: %+v", err)
		return err
	}

	u.log.WithField("email", email).Info("Admin user created")
	return nil
}

func (u *authUsecase) issueToken(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	token, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, user.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (u *authUsecase) userExists(ctx context.Context, id string) (bool, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	return user != nil, err
}

func newDoctorProfile(user *entity.User, req *dto.RegisterRequest) *entity.Doctor {
	return &entity.Doctor{
		ID:             user.ID,
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          req.Phone,
		Department:     strings.TrimSpace(req.Department),
		Specialization: strings.TrimSpace(req.Specialization),
		Qualifications: entity.StringList(append([]string{}, req.Qualifications...)),
		WorkingDays:    entity.StringList(append([]string{}, entity.DefaultWorkingDays...)),
		WorkingHours: entity.WorkingHours{
			Start: entity.DefaultWorkingStart,
			End:   entity.DefaultWorkingEnd,
		},
		SlotMinutes:     entity.DefaultSlotMinutes,
		ConsultationFee: decimal.Zero,
		Appointments:    entity.StringList{},
		Status:          entity.DoctorStatusActive,
		Rating:          defaultDoctorRating,
		CreatedAt:       user.CreatedAt,
	}
}

func newPatientProfile(user *entity.User, req *dto.RegisterRequest) *entity.Patient {
	return &entity.Patient{
		ID:             user.ID,
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          req.Phone,
		Age:            req.Age,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: entity.StringList{},
		Allergies:      entity.StringList{},
		Appointments:   entity.StringList{},
		CreatedAt:      user.CreatedAt,
	}
}
