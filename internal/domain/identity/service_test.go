package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
)

// -- Mock Repositories --

type mockPatientRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockPatientRepo) Names(_ context.Context) ([]*PatientName, error) {
	var result []*PatientName
	for _, p := range m.items {
		result = append(result, &PatientName{ID: p.ID, Name: p.Name})
	}
	return result, nil
}

type mockDoctorRepo struct {
	items map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{items: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.items[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	m.items[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context, search string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.items {
		result = append(result, d)
	}
	return result, len(result), nil
}

type mockStaffRepo struct {
	items map[uuid.UUID]*Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{items: make(map[uuid.UUID]*Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, s *Staff) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.items[s.ID] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockStaffRepo) GetByEmail(_ context.Context, email string) (*Staff, error) {
	for _, s := range m.items {
		if strings.EqualFold(s.Email, email) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockStaffRepo) Update(_ context.Context, s *Staff) error {
	m.items[s.ID] = s
	return nil
}

func (m *mockStaffRepo) List(_ context.Context, limit, offset int) ([]*Staff, int, error) {
	var result []*Staff
	for _, s := range m.items {
		result = append(result, s)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	tokens := auth.TokenConfig{
		Issuer:     "hms-test",
		SigningKey: []byte("test-signing-key-0123456789abcdef"),
		TTL:        time.Hour,
	}
	return NewService(newMockPatientRepo(), newMockDoctorRepo(), newMockStaffRepo(), tokens, zerolog.Nop())
}

// -- Tests --

func TestCreatePatient_RequiresName(t *testing.T) {
	svc := newTestService()
	var verr *ValidationError
	if err := svc.CreatePatient(context.Background(), &Patient{Gender: "female"}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestCreateStaff_HashesPassword(t *testing.T) {
	svc := newTestService()
	st, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Name: "Asha", Email: "asha@clinic.test", Role: "receptionist", Password: "sw0rdfish-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.PasswordHash == "sw0rdfish-9" || st.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestCreateStaff_Validation(t *testing.T) {
	svc := newTestService()
	tests := []struct {
		name string
		in   CreateStaffInput
	}{
		{"missing name", CreateStaffInput{Email: "a@b.test", Role: "admin", Password: "longenough"}},
		{"missing email", CreateStaffInput{Name: "A", Role: "admin", Password: "longenough"}},
		{"bad role", CreateStaffInput{Name: "A", Email: "a@b.test", Role: "superuser", Password: "longenough"}},
		{"short password", CreateStaffInput{Name: "A", Email: "a@b.test", Role: "admin", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStaff(context.Background(), tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Name: "Asha", Email: "asha@clinic.test", Role: "admin", Password: "sw0rdfish-9"}); err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginInput{Email: "asha@clinic.test", Password: "sw0rdfish-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	claims, err := auth.ParseToken(svc.tokens, resp.Token)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin in claims, got %s", claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Name: "Asha", Email: "asha@clinic.test", Role: "admin", Password: "sw0rdfish-9"}); err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "asha@clinic.test", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	svc := newTestService()
	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@clinic.test", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
