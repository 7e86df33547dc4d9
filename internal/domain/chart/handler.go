package chart

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chartnote/chartnote/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/chart/:patientID", h.GetSnapshot)
	readGroup.GET("/chart/:patientID/vitals", h.GetVitals)
	readGroup.GET("/chart/:patientID/labs", h.GetLabs)
	readGroup.GET("/chart/:patientID/conditions", h.GetConditions)
	readGroup.GET("/chart/:patientID/imaging", h.GetImaging)
	readGroup.GET("/chart/:patientID/medications", h.GetMedications)
}

func (h *Handler) snapshot(c echo.Context) (*Snapshot, error) {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	snap, err := h.svc.GetSnapshot(c.Request().Context(), patientID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return snap, nil
}

func (h *Handler) GetVitals(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Vitals)
}

func (h *Handler) GetLabs(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Labs)
}

func (h *Handler) GetConditions(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Conditions)
}

func (h *Handler) GetImaging(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Imaging)
}

func (h *Handler) GetMedications(c echo.Context) error {
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Medications)
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	snap, err := h.svc.GetSnapshot(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}
