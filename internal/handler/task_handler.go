package handler

import (
	"utc-go/internal/dto"
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	taskService *service.TaskService
	logger      logrus.FieldLogger
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(taskService *service.TaskService, logger logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks 获取任务列表
// @Summary 获取任务列表
// @Tags 任务
// @Success 200 {object} utils.Response{data=[]models.Task}
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, tasks)
}

// CreateTask 创建任务
// @Summary 创建任务
// @Tags 任务
// @Param request body dto.TaskRequest true "任务"
// @Success 200 {object} utils.Response{data=models.Task}
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "任务创建成功", task)
}

// GetTask 获取任务详情
// @Summary 获取任务详情
// @Tags 任务
// @Param id path int true "任务ID"
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, task)
}

// UpdateTask 更新任务
// @Summary 更新任务
// @Tags 任务
// @Param id path int true "任务ID"
// @Param request body dto.TaskRequest true "任务"
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "任务已更新", task)
}

// DeleteTask 删除任务
// @Summary 删除任务
// @Tags 任务
// @Param id path int true "任务ID"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "任务已删除", nil)
}
