package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
	"github.com/educontrol/educontrol-api/pkg/response"
)

type reportService interface {
	Get(ctx context.Context, id string) (*models.Report, error)
	History(ctx context.Context, id string) ([]models.ReportHistoryEntry, error)
	Create(ctx context.Context, req models.CreateReportRequest, actor *models.Actor) (*models.CreatedReport, error)
	UpdateHours(ctx context.Context, id string, req models.UpdateHoursRequest, actor *models.Actor) (*models.HoursUpdateResult, error)
}

// ReportHandler exposes report reads and mutations.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create godoc
// @Summary Apply a report to a student
// @Tags Reports
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	created, err := h.reports.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Get godoc
// @Summary Report detail
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// UpdateHours godoc
// @Summary Change the outstanding hours of a report
// @Tags Reports
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body models.UpdateHoursRequest true "New balance"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/reports/{id} [put]
func (h *ReportHandler) UpdateHours(c *gin.Context) {
	var req models.UpdateHoursRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	h.applyHours(c, c.Param("id"), req)
}

// Action godoc
// @Summary Legacy form endpoint for report actions
// @Tags Reports
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param action formData string true "update_report"
// @Param id formData string true "Report ID"
// @Param horas formData int true "New hours"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/v1/reports/actions [post]
func (h *ReportHandler) Action(c *gin.Context) {
	var req models.ReportActionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if strings.TrimSpace(req.Action) != models.ReportActionUpdate {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported action"))
		return
	}
	h.applyHours(c, strings.TrimSpace(req.ID), models.UpdateHoursRequest{
		Hours:       req.Hours,
		Description: req.Description,
		Note:        req.Note,
	})
}

// History godoc
// @Summary Hour change history of a report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/reports/{id}/history [get]
func (h *ReportHandler) History(c *gin.Context) {
	entries, err := h.reports.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, withMeta(c, map[string]interface{}{"total": len(entries)}))
}

func (h *ReportHandler) applyHours(c *gin.Context, id string, req models.UpdateHoursRequest) {
	result, err := h.reports.UpdateHours(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, withMeta(c, map[string]interface{}{
		"estado": models.BucketFor(result.Hours),
	}))
}

func invalidPayload(err error) *appErrors.Error {
	return appErrors.Classify(err, appErrors.ErrValidation, "invalid request payload")
}
