package handler

import (
	"strconv"

	"utc-go/internal/dto"
	"utc-go/internal/middleware"
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler 管理员处理器
type AdminHandler struct {
	userService *service.UserService
	logger      logrus.FieldLogger
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(userService *service.UserService, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers 获取所有用户
// @Summary 获取所有用户
// @Tags 管理
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "20"))

	users, err := h.userService.List(c.Request.Context(), page, perPage)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, users)
}

// UpdateUserStatus 启用/停用账户
// @Summary 启用/停用账户
// @Tags 管理
// @Param id path int true "用户ID"
// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := h.userService.SetActive(c.Request.Context(), actorID, id, *req.IsActive)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "账户状态已更新", user)
}

// UpdateUserRole 修改用户角色
// @Summary 修改用户角色
// @Tags 管理
// @Param id path int true "用户ID"
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := h.userService.SetRole(c.Request.Context(), actorID, id, req.Role)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "角色已更新", user)
}
