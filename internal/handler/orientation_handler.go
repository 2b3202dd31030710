package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/internal/service"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
	"github.com/educontrol/educontrol-api/pkg/response"
)

type orientationService interface {
	Totals(ctx context.Context, filter models.StudentFilter) ([]models.OrientationRow, error)
	Export(ctx context.Context, filter models.StudentFilter, format models.ExportFormat) (*models.ExportFile, error)
}

// OrientationHandler serves the orientation board.
type OrientationHandler struct {
	orientation orientationService
}

// NewOrientationHandler constructs an OrientationHandler.
func NewOrientationHandler(orientation orientationService) *OrientationHandler {
	return &OrientationHandler{orientation: orientation}
}

// Totals godoc
// @Summary Per-student totals of active reports
// @Tags Orientation
// @Produce json
// @Security BearerAuth
// @Param grado query string false "Grade"
// @Param grupo query string false "Group label"
// @Param q query string false "Name or matricula"
// @Success 200 {object} response.Envelope
// @Router /api/v1/orientation/totals [get]
func (h *OrientationHandler) Totals(c *gin.Context) {
	rows, err := h.orientation.Totals(c.Request.Context(), studentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, withMeta(c, map[string]interface{}{"summary": service.Summarize(rows)}))
}

// Export godoc
// @Summary Download the orientation board
// @Tags Orientation
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /api/v1/orientation/totals/export [get]
func (h *OrientationHandler) Export(c *gin.Context) {
	format, ok := models.ParseExportFormat(c.Query("format"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx"))
		return
	}
	file, err := h.orientation.Export(c.Request.Context(), studentFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
