package encounter

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

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreateVisit(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"patient_id":"` + uuid.New().String() + `",
		"doctor_id":"` + uuid.New().String() + `",
		"case_type":"opd","case_status":"new"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var got Visit
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.VisitedAt.IsZero() {
		t.Error("visit time should be set")
	}
}

func TestHandler_CreateVisit_BadCaseType(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"patient_id":"` + uuid.New().String() + `",
		"doctor_id":"` + uuid.New().String() + `",
		"case_type":"telehealth","case_status":"new"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateVisit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_CreateDiagnosis(t *testing.T) {
	h, e := newTestHandler(t)
	visit := &Visit{
		PatientID:  uuid.New(),
		DoctorID:   uuid.New(),
		CaseType:   "opd",
		CaseStatus: "new",
	}
	if err := h.svc.CreateVisit(context.Background(), visit); err != nil {
		t.Fatalf("seed visit: %v", err)
	}

	body := `{"visit_id":"` + visit.ID.String() + `",
		"patient_id":"` + visit.PatientID.String() + `",
		"doctor_id":"` + visit.DoctorID.String() + `",
		"complaint":"fever for three days","diagnosis":"viral fever"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateDiagnosis(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/", nil)
	listRec := httptest.NewRecorder()
	lc := e.NewContext(listReq, listRec)
	lc.SetParamNames("id")
	lc.SetParamValues(visit.ID.String())

	if err := h.ListVisitDiagnoses(lc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []*Diagnosis
	if err := json.Unmarshal(listRec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 diagnosis, got %d", len(items))
	}
}

func TestHandler_CreateDiagnosis_MissingComplaint(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"visit_id":"` + uuid.New().String() + `",
		"patient_id":"` + uuid.New().String() + `",
		"doctor_id":"` + uuid.New().String() + `",
		"diagnosis":"viral fever"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateDiagnosis(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetVisit_InvalidID(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetVisit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
