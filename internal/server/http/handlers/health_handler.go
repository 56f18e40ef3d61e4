package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// Health handles GET /healthz.
func Health(facade OrderDeskFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := facade.Health(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Code: "unhealthy", Message: "storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
