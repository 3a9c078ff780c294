package handler

import (
	"utc-go/internal/dto"
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TestExecutionHandler 执行记录处理器
type TestExecutionHandler struct {
	executionService *service.TestExecutionService
	logger           logrus.FieldLogger
}

// NewTestExecutionHandler 创建执行记录处理器
func NewTestExecutionHandler(executionService *service.TestExecutionService, logger logrus.FieldLogger) *TestExecutionHandler {
	return &TestExecutionHandler{
		executionService: executionService,
		logger:           logger,
	}
}

// ListExecutions 按条件查询执行记录
// @Summary 查询执行记录
// @Tags 执行记录
// @Param status query string false "pass/fail"
// @Param label query string false "任务标签（子串）"
// @Param tags query string false "JSON数组或单个标签"
// @Param latest query bool false "每个任务只返回最新一条（仅在没有其他条件时生效）"
// @Router /test-executions [get]
func (h *TestExecutionHandler) ListExecutions(c *gin.Context) {
	latest, err := utils.ParseBoolParam(c.Query("latest"), "latest")
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	filter := dto.ExecutionFilter{
		Status: c.Query("status"),
		Label:  c.Query("label"),
		Tags:   utils.ParseStringListParam(c.Query("tags")),
		Latest: latest,
	}

	executions, err := h.executionService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, executions)
}

// ListByTask 获取某个任务的执行历史
// @Summary 获取任务的执行历史
// @Tags 执行记录
// @Param taskId path int true "任务ID"
// @Router /test-executions/by-task/{taskId} [get]
func (h *TestExecutionHandler) ListByTask(c *gin.Context) {
	taskID, err := service.ParseID(c.Param("taskId"), "taskId")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	executions, err := h.executionService.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, executions)
}

// CreateExecution 新建执行记录
// @Summary 新建执行记录
// @Tags 执行记录
// @Param request body dto.ExecutionRequest true "执行记录"
// @Router /test-executions [post]
func (h *TestExecutionHandler) CreateExecution(c *gin.Context) {
	var req dto.ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	execution, err := h.executionService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "执行记录已保存", execution)
}

// GetExecution 获取执行记录详情
// @Summary 获取执行记录详情
// @Tags 执行记录
// @Param id path int true "执行记录ID"
// @Router /test-executions/{id} [get]
func (h *TestExecutionHandler) GetExecution(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	execution, err := h.executionService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, execution)
}

// UpdateExecution 更新执行记录
// @Summary 更新执行记录
// @Tags 执行记录
// @Param id path int true "执行记录ID"
// @Router /test-executions/{id} [put]
func (h *TestExecutionHandler) UpdateExecution(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	execution, err := h.executionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "执行记录已更新", execution)
}

// DeleteExecution 删除执行记录
// @Summary 删除执行记录
// @Tags 执行记录
// @Param id path int true "执行记录ID"
// @Router /test-executions/{id} [delete]
func (h *TestExecutionHandler) DeleteExecution(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	if err := h.executionService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "执行记录已删除", nil)
}
