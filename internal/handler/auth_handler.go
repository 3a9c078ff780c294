package handler

import (
	"net/http"

	"utc-go/internal/dto"
	"utc-go/internal/middleware"
	"utc-go/internal/service"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CookieOptions 登录Cookie设置
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *service.AuthService
	cookie      CookieOptions
	logger      logrus.FieldLogger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService, cookie CookieOptions, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 200 {object} utils.Response{data=dto.AuthResponse}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	h.setTokenCookie(c, resp)
	utils.SuccessWithMessage(c, "注册成功", resp)
}

// Login 用户登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} utils.Response{data=dto.AuthResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	h.setTokenCookie(c, resp)
	utils.SuccessWithMessage(c, "登录成功", resp)
}

// Logout 清除登录Cookie；Bearer Token 由客户端自行丢弃
// @Summary 退出登录
// @Tags 认证
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=dto.UserInfo}
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "未认证")
		return
	}

	userInfo, err := h.authService.GetMe(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, userInfo)
}

// UpdateMe 修改个人资料
// @Summary 修改个人资料
// @Tags 认证
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "资料"
// @Success 200 {object} utils.Response{data=dto.UserInfo}
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "未认证")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	userInfo, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "资料已更新", userInfo)
}

// ForgotPassword 忘记密码
// 无论邮箱是否存在、邮件是否发送成功，响应都相同
// @Summary 忘记密码
// @Tags 认证
// @Param request body dto.ForgotPasswordRequest true "邮箱"
// @Success 200 {object} utils.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	h.authService.ForgotPassword(c.Request.Context(), req.Email)
	utils.SuccessWithMessage(c, "如果该邮箱已注册，重置密码链接已发送", nil)
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Tags 认证
// @Param request body dto.ResetPasswordRequest true "重置信息"
// @Success 200 {object} utils.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.BindingError(err))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "密码已重置，请重新登录", nil)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, resp *dto.AuthResponse) {
	if h.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, resp.Token, int(resp.ExpiresIn), "/", "", h.cookie.Secure, true)
}
