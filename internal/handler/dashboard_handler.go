package handler

import (
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           logrus.FieldLogger
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(dashboardService *service.DashboardService, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard 每个任务及其最新执行结果
// @Summary 仪表盘
// @Tags 仪表盘
// @Success 200 {object} utils.Response{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	board, err := h.dashboardService.Build(c.Request.Context())
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, board)
}
