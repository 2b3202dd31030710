package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/pkg/middleware/requestid"
)

// Audit logs successful mutations together with the acting session.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}
		fields := []zap.Field{
			zap.String("action", action),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", requestid.Value(c)),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		}
		if claims := Session(c); claims != nil {
			fields = append(fields,
				zap.Int64("actor_id", claims.UserID),
				zap.String("actor", claims.Name),
				zap.String("role", string(claims.Role)),
			)
		}
		logger.Info("audit", fields...)
	}
}
