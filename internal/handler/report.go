package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lost-pet-registry/internal/queue"
	"github.com/iliyamo/lost-pet-registry/internal/repository"
	"github.com/iliyamo/lost-pet-registry/internal/service"
)

// ReportHandler ingests public sighting reports. Persisting the report is
// the transactional outcome of the request; notifying the owner is a best-
// effort side effect dispatched after the insert.
type ReportHandler struct {
	Pets       *repository.PetRepo
	Reports    *repository.ReportRepo
	Dispatcher *service.Dispatcher
}

func NewReportHandler(pets *repository.PetRepo, reports *repository.ReportRepo, d *service.Dispatcher) *ReportHandler {
	return &ReportHandler{Pets: pets, Reports: reports, Dispatcher: d}
}

type createReportReq struct {
	PetID         uint64  `json:"petId"`
	ReporterName  string  `json:"reporterName"`
	ReporterPhone string  `json:"reporterPhone"`
	Location      *string `json:"location"`
	Details       *string `json:"details"`
}

// Create handles POST /reports. The pet is resolved first so that a report
// for a nonexistent pet writes nothing and answers 404.
func (h *ReportHandler) Create(c echo.Context) error {
	var req createReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	req.ReporterName = strings.TrimSpace(req.ReporterName)
	req.ReporterPhone = strings.TrimSpace(req.ReporterPhone)
	if req.PetID == 0 || req.ReporterName == "" || req.ReporterPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing_fields"})
	}

	ctx := c.Request().Context()

	petName, ownerEmail, err := h.Pets.OwnerContact(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet_not_found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}

	rep, err := h.Reports.Create(ctx, req.PetID, req.ReporterName, req.ReporterPhone,
		req.Location, req.Details)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}

	ev := queue.ReportCreatedEvent{
		ReportID:      rep.ID,
		PetID:         rep.PetID,
		PetName:       petName,
		OwnerEmail:    ownerEmail,
		ReporterName:  rep.ReporterName,
		ReporterPhone: rep.ReporterPhone,
		CreatedAt:     rep.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rep.Location != nil {
		ev.Location = *rep.Location
	}
	if rep.Details != nil {
		ev.Details = *rep.Details
	}
	h.Dispatcher.DispatchSighting(ctx, ev)

	return c.JSON(http.StatusCreated, rep)
}
