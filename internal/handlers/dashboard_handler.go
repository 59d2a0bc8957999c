package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bijou/internal/services"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// @Summary      관리자 대시보드
// @Description  월간 주문/매출 카드, 주간 일별 매출, 카테고리별 매출 분포
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  services.DashboardPayload
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	payload, err := h.Service.Build()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}
