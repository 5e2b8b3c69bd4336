package queue

import (
	"errors"
	"net/http"

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
	readGroup.GET("/waiting-list", h.List)
	readGroup.GET("/waiting-list/doctor/:doctorId", h.ListByDoctor)

	// Queue management – admin, receptionist
	manageGroup := api.Group("", auth.RequireRole("admin", "receptionist"))
	manageGroup.POST("/waiting-list", h.Add)
	manageGroup.DELETE("/waiting-list/:id", h.Remove)

	// Transitions – doctors drive their own queue as well
	transitionGroup := api.Group("", auth.RequireRole("admin", "receptionist", "doctor"))
	transitionGroup.PATCH("/waiting-list/:id", h.Act)
}

func (h *Handler) Add(c echo.Context) error {
	var in AddEntryInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.Add(c.Request().Context(), in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

// transitionResponse carries the entry plus an informational message for
// no-op transitions.
type transitionResponse struct {
	Entry   *Entry `json:"entry"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) Act(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in ActInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	e, err := h.svc.Act(c.Request().Context(), id, in.Action)
	if err != nil {
		var already *AlreadyInStateError
		if errors.As(err, &already) {
			return c.JSON(http.StatusOK, transitionResponse{Entry: e, Message: already.Error()})
		}
		var terr *InvalidTransitionError
		if errors.As(err, &terr) {
			return echo.NewHTTPError(http.StatusConflict, terr.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "queue entry not found")
	}
	return c.JSON(http.StatusOK, transitionResponse{Entry: e})
}

func (h *Handler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Remove(c.Request().Context(), id)
	if err != nil {
		var terr *InvalidTransitionError
		if errors.As(err, &terr) {
			return echo.NewHTTPError(http.StatusConflict, terr.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "queue entry not found")
	}
	return c.JSON(http.StatusOK, transitionResponse{Entry: e})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), doctorID, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
