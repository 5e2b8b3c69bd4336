package billing

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – admin, receptionist, doctor
	readGroup := api.Group("", auth.RequireRole("admin", "receptionist", "doctor"))
	readGroup.GET("/charges", h.ListCharges)
	readGroup.GET("/charges/:id", h.GetCharge)
	readGroup.GET("/charge-masters", h.ListChargeMasters)
	readGroup.GET("/patient-ledger", h.Ledger)
	readGroup.GET("/ledger/:id", h.LedgerByPatient)
	readGroup.GET("/patient-payment-history/:id", h.PaymentHistory)

	// Write endpoints – admin only
	writeGroup := api.Group("", auth.RequireRole("admin"))
	writeGroup.POST("/charges", h.CreateCharge)
	writeGroup.PATCH("/charges/:id", h.UpdateCharge)
	writeGroup.POST("/receive-payment", h.ReceivePayment)
	writeGroup.POST("/charge-masters", h.CreateChargeMaster)
	writeGroup.PATCH("/charge-masters/:id", h.UpdateChargeMaster)
	writeGroup.DELETE("/charge-masters/:id", h.DeactivateChargeMaster)
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	}
	var perr *PaymentExceedsBalanceError
	if errors.As(err, &perr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, perr.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- Charge Handlers --

func (h *Handler) CreateCharge(c echo.Context) error {
	var in CreateChargeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.CreateCharge(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetCharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.GetCharge(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "charge not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateCharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateChargeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.UpdateCharge(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// chargeFilterFromQuery reads the optional patient_id, case_type, from
// and to query parameters shared by the charge and ledger listings.
func chargeFilterFromQuery(c echo.Context) (ChargeFilter, error) {
	var f ChargeFilter
	if v := c.QueryParam("patient_id"); v != "" {
		pid, err := uuid.Parse(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.PatientID = &pid
	}
	f.CaseType = c.QueryParam("case_type")
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = t
	}
	return f, nil
}

func (h *Handler) ListCharges(c echo.Context) error {
	f, err := chargeFilterFromQuery(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCharges(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

// -- Payment Handlers --

func (h *Handler) ReceivePayment(c echo.Context) error {
	var in ReceivePaymentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	receivedBy := auth.UserIDFromContext(c.Request().Context())
	receipt, err := h.svc.ReceivePayment(c.Request().Context(), in, receivedBy)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) PaymentHistory(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PaymentHistory(c.Request().Context(), pid, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

// -- Ledger Handlers --

func (h *Handler) Ledger(c echo.Context) error {
	f, err := chargeFilterFromQuery(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Ledger(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) LedgerByPatient(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	summary, err := h.svc.LedgerByPatient(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no charges for patient")
	}
	return c.JSON(http.StatusOK, summary)
}

// -- Charge Master Handlers --

func (h *Handler) CreateChargeMaster(c echo.Context) error {
	var m ChargeMaster
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateChargeMaster(c.Request().Context(), &m); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateChargeMaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m ChargeMaster
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateChargeMaster(c.Request().Context(), &m); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeactivateChargeMaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateChargeMaster(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListChargeMasters(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") != "false"
	items, total, err := h.svc.ListChargeMasters(c.Request().Context(), activeOnly, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
