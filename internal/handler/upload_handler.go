package handler

import (
	"mime/multipart"
	"sort"

	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadHandler 上传处理器
type UploadHandler struct {
	uploadService *service.UploadService
	logger        logrus.FieldLogger
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(uploadService *service.UploadService, logger logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// Upload 上传图片，表单中所有文件字段都会被处理
// @Summary 上传图片
// @Tags 上传
// @Accept multipart/form-data
// @Success 200 {object} utils.Response{data=dto.UploadResponse}
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequest(c, "请使用 multipart/form-data 上传文件")
		return
	}

	resp, err := h.uploadService.SaveImages(c.Request.Context(), collectFiles(form))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessWithMessage(c, "上传成功", resp)
}

func collectFiles(form *multipart.Form) []*multipart.FileHeader {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []*multipart.FileHeader
	for _, field := range fields {
		files = append(files, form.File[field]...)
	}
	return files
}
