package api

import (
	"net/http"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Subscribers(c *gin.Context) {
	total, err := h.statsService.DistinctSubscribers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalSubscribers": total})
}

func (h *StatsHandler) PaidMembers(c *gin.Context) {
	total, err := h.statsService.PaidMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalPaidMembers": total})
}
