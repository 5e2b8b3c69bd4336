package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repository --

type mockRepo struct {
	items map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status AppointmentStatus) error {
	a, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.Status = status
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.DoctorID != doctorID {
			continue
		}
		if !from.IsZero() && a.ScheduledAt.Before(from) {
			continue
		}
		if !to.IsZero() && !a.ScheduledAt.Before(to) {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

type mockWaitlister struct {
	calls []uuid.UUID
	err   error
}

func (m *mockWaitlister) Enqueue(_ context.Context, patientID, doctorID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, patientID)
	return nil
}

func newTestService() (*Service, *mockRepo, *mockWaitlister) {
	repo := newMockRepo()
	wl := &mockWaitlister{}
	return NewService(repo, wl, zerolog.Nop()), repo, wl
}

// -- Tests --

func TestCreate(t *testing.T) {
	svc, _, wl := newTestService()
	a, err := svc.Create(context.Background(), CreateAppointmentInput{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", a.Status)
	}
	if len(wl.calls) != 0 {
		t.Error("should not enqueue unless asked")
	}
}

func TestCreate_AddToQueue(t *testing.T) {
	svc, _, wl := newTestService()
	patientID := uuid.New()
	_, err := svc.Create(context.Background(), CreateAppointmentInput{
		PatientID:   patientID,
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
		AddToQueue:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wl.calls) != 1 || wl.calls[0] != patientID {
		t.Errorf("expected one enqueue for the patient, got %v", wl.calls)
	}
}

func TestCreate_QueueFailureDoesNotFailBooking(t *testing.T) {
	svc, repo, wl := newTestService()
	wl.err = fmt.Errorf("queue unavailable")

	a, err := svc.Create(context.Background(), CreateAppointmentInput{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
		AddToQueue:  true,
	})
	if err != nil {
		t.Fatalf("booking should survive a queue failure: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), a.ID); err != nil {
		t.Errorf("appointment should be stored: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	when := time.Now().Add(time.Hour)
	tests := []struct {
		name string
		in   CreateAppointmentInput
	}{
		{"missing patient", CreateAppointmentInput{DoctorID: uuid.New(), ScheduledAt: when}},
		{"missing doctor", CreateAppointmentInput{PatientID: uuid.New(), ScheduledAt: when}},
		{"missing time", CreateAppointmentInput{PatientID: uuid.New(), DoctorID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCancelCompleted(t *testing.T) {
	svc, _, _ := newTestService()
	a, err := svc.Create(context.Background(), CreateAppointmentInput{
		PatientID: uuid.New(), DoctorID: uuid.New(), ScheduledAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = svc.Cancel(context.Background(), a.ID)
	var terr *TerminalStatusError
	if !errors.As(err, &terr) {
		t.Errorf("expected TerminalStatusError, got %v", err)
	}
}
