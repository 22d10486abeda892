package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/t0mb36/veloApp-sub001/internal/api"
	"github.com/t0mb36/veloApp-sub001/internal/checkout"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

type QueueResponse struct {
	Pending int64 `json:"pending" example:"3"`
}

// @Summary      Checkout queue length
// @Description  Number of orders waiting for the payment collaborator.
// @Tags         system
// @Produce      json
// @Success      200 {object} QueueResponse
// @Router       /checkout/queue [get]
func QueueLength(checkoutService *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, QueueResponse{Pending: checkoutService.QueueLength(c.Request.Context())})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
