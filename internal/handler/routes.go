package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/internal/middleware"
	"github.com/educontrol/educontrol-api/internal/models"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth        *AuthHandler
	Students    *StudentHandler
	Reports     *ReportHandler
	Orientation *OrientationHandler
	Metrics     *MetricsHandler
}

// RouteConfig controls how the API is mounted.
type RouteConfig struct {
	APIPrefix      string
	MetricsEnabled bool
}

// RegisterRoutes mounts the ops endpoints at the root and the API under the configured prefix.
func RegisterRoutes(r *gin.Engine, cfg RouteConfig, h Handlers, tokens middleware.TokenValidator, logger *zap.Logger) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.MetricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.Auth.Me)

	own := secured.Group("/students/:matricula")
	own.Use(middleware.StaffOrOwnMatricula("matricula"))
	own.GET("", h.Students.Get)
	own.GET("/reports", h.Students.Reports)

	staff := secured.Group("")
	staff.Use(middleware.StaffOnly())
	staff.GET("/students", h.Students.List)
	staff.GET("/groups", h.Students.Groups)

	orientation := staff.Group("/orientation")
	orientation.Use(middleware.RequireRoles(models.RoleOrientation, models.RoleAdmin, models.RolePrefect))
	orientation.GET("/totals", h.Orientation.Totals)
	orientation.GET("/totals/export", h.Orientation.Export)

	staff.POST("/reports", middleware.Audit(logger, "report.create"), h.Reports.Create)
	staff.POST("/reports/actions", middleware.Audit(logger, "report.update_hours"), h.Reports.Action)
	staff.GET("/reports/:id", h.Reports.Get)
	staff.PUT("/reports/:id", middleware.Audit(logger, "report.update_hours"), h.Reports.UpdateHours)
	staff.GET("/reports/:id/history", h.Reports.History)
}
