package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/pkg/response"
)

type studentService interface {
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentTotal, error)
	Profile(ctx context.Context, matricula string) (*models.StudentProfile, error)
	Groups(ctx context.Context) (*models.GroupCatalog, error)
}

type studentDetailService interface {
	StudentDetail(ctx context.Context, matricula string) (*models.StudentDetail, error)
}

// StudentHandler exposes student lookups.
type StudentHandler struct {
	students studentService
	details  studentDetailService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(students studentService, details studentDetailService) *StudentHandler {
	return &StudentHandler{students: students, details: details}
}

// List godoc
// @Summary List students with their active report count
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param grado query string false "Grade"
// @Param grupo query string false "Group label"
// @Param q query string false "Name or matricula"
// @Success 200 {object} response.Envelope
// @Router /api/v1/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.ListStudents(c.Request.Context(), studentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, withMeta(c, map[string]interface{}{"total": len(students)}))
}

// Get godoc
// @Summary Student profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/students/{matricula} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	profile, err := h.students.Profile(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Reports godoc
// @Summary Student profile with outstanding and completed reports
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Router /api/v1/students/{matricula}/reports [get]
func (h *StudentHandler) Reports(c *gin.Context) {
	detail, err := h.details.StudentDetail(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	outstandingHours := 0
	for _, r := range detail.Outstanding {
		outstandingHours += r.Hours
	}
	response.JSON(c, http.StatusOK, detail, withMeta(c, map[string]interface{}{
		"adeudos":      len(detail.Outstanding),
		"completados":  len(detail.Completed),
		"horas_adeudo": outstandingHours,
	}))
}

// Groups godoc
// @Summary Group catalog
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/v1/groups [get]
func (h *StudentHandler) Groups(c *gin.Context) {
	catalog, err := h.students.Groups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, catalog)
}
