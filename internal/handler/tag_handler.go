package handler

import (
	"utc-go/internal/dto"
	"utc-go/internal/middleware"
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TagHandler 标签处理器
type TagHandler struct {
	tagService *service.TagService
	logger     logrus.FieldLogger
}

// NewTagHandler 创建标签处理器
func NewTagHandler(tagService *service.TagService, logger logrus.FieldLogger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags 获取标签列表
// 默认返回启用标签名称（自动补全），details=true 时返回完整记录，activeOnly=true 只看启用的
// @Summary 获取标签列表
// @Tags 标签
// @Param details query bool false "返回完整记录"
// @Param activeOnly query bool false "只返回启用标签"
// @Router /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	details, err := utils.ParseBoolParam(c.Query("details"), "details")
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	activeOnly, err := utils.ParseBoolParam(c.Query("activeOnly"), "activeOnly")
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	tags, err := h.tagService.List(c.Request.Context(), service.TagFilter{
		ActiveOnly:     activeOnly,
		IncludeDetails: details,
	})
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, tags)
}

// CreateTag 创建标签
// @Summary 创建标签
// @Tags 标签
// @Security BearerAuth
// @Param request body dto.TagRequest true "标签"
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "未认证")
		return
	}

	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "标签创建成功", tag)
}

// UpdateTag 更新标签
// @Summary 更新标签
// @Tags 标签
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	tag, err := h.tagService.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "标签已更新", tag)
}

// DeleteTag 删除标签
// @Summary 删除标签
// @Tags 标签
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "标签已删除", nil)
}
