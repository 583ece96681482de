package v1

import (
	"errors"
	"net/http"

	"portfolio-contact/internal/domain"
	"portfolio-contact/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	h := &HealthHandler{healthUC: healthUC}
	public.GET("/health", h.Health)
}

// Health godoc
// @Summary      Health Check
// @Description  Reports database, cache and mail status. 503 when the database is down.
// @Tags         system
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Failure      503  {object}  domain.HealthStatus
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, err := h.healthUC.Check(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrDatabaseDown) && status != nil {
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}
