package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/platform/auth"
)

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
	staff    StaffRepository
	tokens   auth.TokenConfig
	logger   zerolog.Logger
}

func NewService(patients PatientRepository, doctors DoctorRepository, staff StaffRepository, tokens auth.TokenConfig, logger zerolog.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, staff: staff, tokens: tokens, logger: logger}
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, limit, offset)
}

func (s *Service) PatientNames(ctx context.Context) ([]*PatientName, error) {
	return s.patients.Names(ctx)
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) ListDoctors(ctx context.Context, search string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, search, limit, offset)
}

// -- Staff --

func (s *Service) CreateStaff(ctx context.Context, in CreateStaffInput) (*Staff, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if in.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if !validRoles[in.Role] {
		return nil, &ValidationError{Field: "role", Reason: "must be admin, receptionist or doctor"}
	}
	if len(in.Password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	st := &Staff{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: string(hash),
	}
	if err := s.staff.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.staff.List(ctx, limit, offset)
}

// -- Login --

// Login verifies credentials and issues an access token. Failures always
// return ErrInvalidCredentials regardless of cause.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	st, err := s.staff.GetByEmail(ctx, in.Email)
	if err != nil {
		s.logger.Warn().Str("email", in.Email).Msg("login attempt for unknown account")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Warn().Str("email", in.Email).Msg("login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.tokens, st.ID.String(), st.Name, st.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("staff_id", st.ID.String()).Str("role", st.Role).Msg("staff signed in")
	return &LoginResponse{Token: token, User: st}, nil
}
