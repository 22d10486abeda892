package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/t0mb36/veloApp-sub001/internal/api"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCatalog godoc
// @Summary      Coach catalog
// @Description  Returns the coach, its active services and upcoming availability.
// @Tags         catalog
// @Produce      json
// @Param        coachID  path      string  true  "Coach ID"
// @Success      200      {object}  CoachCatalog
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	coachID := c.Param("coachID")

	cat, err := h.service.GetCatalog(c.Request.Context(), coachID)
	if err != nil {
		if errors.Is(err, ErrCoachNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
			return
		}
		logger.WithError(err).Error("failed to load catalog", "coach_id", coachID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load catalog"})
		return
	}

	cat.Services = ActiveServices(cat.Services)
	c.JSON(http.StatusOK, cat)
}
