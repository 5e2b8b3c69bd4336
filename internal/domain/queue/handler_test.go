package queue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func TestHandler_Add(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","doctor_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Add(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Add_MissingDoctor(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Add(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Act_Call(t *testing.T) {
	h, e := newTestHandler()
	entry, err := h.svc.Add(context.Background(), AddEntryInput{PatientID: uuid.New(), DoctorID: uuid.New()})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"action":"call"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID.String())

	if err := h.Act(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got transitionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Entry.Status != StatusCalled {
		t.Errorf("expected called, got %s", got.Entry.Status)
	}
}

func TestHandler_Act_IllegalTransition(t *testing.T) {
	h, e := newTestHandler()
	entry, err := h.svc.Add(context.Background(), AddEntryInput{PatientID: uuid.New(), DoctorID: uuid.New()})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"action":"complete"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID.String())

	err = h.Act(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_Act_AlreadyCalled(t *testing.T) {
	h, e := newTestHandler()
	entry, err := h.svc.Add(context.Background(), AddEntryInput{PatientID: uuid.New(), DoctorID: uuid.New()})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if _, err := h.svc.Act(context.Background(), entry.ID, ActionCall); err != nil {
		t.Fatalf("call: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"action":"call"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID.String())

	if err := h.Act(c); err != nil {
		t.Fatalf("no-op should not be an HTTP error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var got transitionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Message == "" {
		t.Error("expected an informational message")
	}
}

func TestHandler_Remove(t *testing.T) {
	h, e := newTestHandler()
	entry, err := h.svc.Add(context.Background(), AddEntryInput{PatientID: uuid.New(), DoctorID: uuid.New()})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID.String())

	if err := h.Remove(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got transitionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Entry.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", got.Entry.Status)
	}
}

func TestHandler_ListByDoctor_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("doctorId")
	c.SetParamValues("nope")

	err := h.ListByDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
