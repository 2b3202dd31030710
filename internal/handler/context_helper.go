package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/middleware"
	"github.com/educontrol/educontrol-api/internal/models"
)

// actorFromContext returns the staff member behind the request, or nil for student sessions.
func actorFromContext(c *gin.Context) *models.Actor {
	return middleware.Session(c).Actor()
}

func studentFilterFromQuery(c *gin.Context) models.StudentFilter {
	return models.StudentFilter{
		Grade:      strings.TrimSpace(c.Query("grado")),
		GroupLabel: strings.TrimSpace(c.Query("grupo")),
		Search:     strings.TrimSpace(c.Query("q")),
	}
}

// withMeta merges handler metadata into the values collected by the response meta middleware.
func withMeta(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		middleware.SetMeta(c, k, v)
	}
	return middleware.ExtractMeta(c)
}
