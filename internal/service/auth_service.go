package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"utc-go/internal/apperror"
	"utc-go/internal/config"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
	"utc-go/internal/utils"
	"utc-go/pkg/mailer"
	"utc-go/pkg/tokenstore"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *utils.JWTManager
	tokens     tokenstore.Store
	mailer     mailer.Sender
	cfg        *config.Config
	logger     logrus.FieldLogger

	background sync.WaitGroup
}

// resetMailTimeout 后台发送重置邮件的超时时间
const resetMailTimeout = 30 * time.Second

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo *repository.UserRepository,
	jwtManager *utils.JWTManager,
	tokens tokenstore.Store,
	sender mailer.Sender,
	cfg *config.Config,
	logger logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		tokens:     tokens,
		mailer:     sender,
		cfg:        cfg,
		logger:     logger,
	}
}

// Register 用户注册，成功后直接签发Token
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name不能为空")
	}
	if len(req.Password) < utils.MinPasswordLength {
		return nil, apperror.Validation("密码长度至少为%d位", utils.MinPasswordLength)
	}

	role := models.RoleTester
	if r := strings.TrimSpace(req.Role); r != "" {
		role = models.Role(strings.ToLower(r))
	}
	if !role.Valid() {
		return nil, apperror.Validation("无效的角色: %s", req.Role)
	}
	// 管理员只能由配置初始化或由其他管理员授予
	if role == models.RoleAdmin {
		return nil, apperror.Validation("不能自行注册管理员账户")
	}

	email := models.NormalizeEmail(req.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email已被注册")
	} else if !repository.IsNotFound(err) {
		return nil, apperror.Internal("检查邮箱失败", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("密码哈希失败", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("email已被注册")
		}
		return nil, apperror.Internal("创建用户失败", err)
	}

	s.logger.WithField("user_id", user.ID).Info("用户注册成功")
	return s.authResponse(user)
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Unauthenticated("邮箱或密码错误")
		}
		return nil, apperror.Internal("获取用户失败", err)
	}

	// 仅通过第三方登录创建的账户没有本地密码
	if user.PasswordHash == "" || utils.CheckPassword(req.Password, user.PasswordHash) != nil {
		return nil, apperror.Unauthenticated("邮箱或密码错误")
	}
	if !user.IsActive {
		return nil, apperror.Inactive("账户已被停用")
	}

	return s.authResponse(user)
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// IsActive 账户是否存在且处于启用状态
func (s *AuthService) IsActive(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, apperror.Internal("获取用户失败", err)
	}
	return user.IsActive, nil
}

// UpdateProfile 修改姓名或密码；修改密码时需要校验当前密码
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.NewPassword != "" {
		if len(req.NewPassword) < utils.MinPasswordLength {
			return nil, apperror.Validation("密码长度至少为%d位", utils.MinPasswordLength)
		}
		if user.PasswordHash != "" && utils.CheckPassword(req.CurrentPassword, user.PasswordHash) != nil {
			return nil, apperror.Validation("当前密码错误")
		}
		hashedPassword, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return nil, apperror.Internal("密码哈希失败", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal("更新用户失败", err)
	}
	info := toUserInfo(user)
	return &info, nil
}

// ForgotPassword 发送重置密码邮件
// 对调用方总是成功且立即返回：查询、签发与发送都在后台完成，结果只记录日志
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resetMailTimeout)
		defer cancel()
		s.sendResetMail(sendCtx, email)
	}()
}

// Wait 等待后台的重置邮件任务结束
func (s *AuthService) Wait() {
	s.background.Wait()
}

func (s *AuthService) sendResetMail(ctx context.Context, email string) {
	logger := s.logger.WithField("action", "forgot_password")

	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if !repository.IsNotFound(err) {
			logger.WithError(err).Error("查询用户失败")
		}
		return
	}
	if !user.IsActive {
		logger.WithField("user_id", user.ID).Info("账户已停用，不发送重置邮件")
		return
	}
	logger = logger.WithField("user_id", user.ID)

	ttl := s.cfg.JWT.GetResetExpireDuration()
	tokenID := uuid.NewString()
	token, err := s.jwtManager.IssueResetToken(identityOf(user), tokenID, ttl)
	if err != nil {
		logger.WithError(err).Error("生成重置Token失败")
		return
	}
	if err := s.tokens.Save(ctx, tokenID, user.ID, ttl); err != nil {
		logger.WithError(err).Error("保存重置Token失败")
		return
	}

	msg, err := mailer.ResetPasswordMessage(user.Email, mailer.ResetPasswordData{
		Name:          user.Name,
		ResetURL:      s.resetURL(token),
		ExpireMinutes: s.cfg.JWT.ResetExpireMinutes,
	})
	if err != nil {
		logger.WithError(err).Error("渲染重置邮件失败")
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithError(err).Error("发送重置邮件失败")
		return
	}
	logger.Info("重置邮件已发送")
}

// ResetPassword 使用重置Token设置新密码，每个Token只能使用一次
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperror.Validation("两次输入的密码不一致")
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		return apperror.Validation("密码长度至少为%d位", utils.MinPasswordLength)
	}

	claims, err := s.jwtManager.VerifyResetToken(req.ResetToken)
	if err != nil {
		return apperror.Validation("重置链接无效或已过期")
	}
	userID, ok, err := s.tokens.Consume(ctx, claims.ID)
	if err != nil {
		return apperror.Internal("校验重置Token失败", err)
	}
	if !ok || userID != claims.UserID {
		return apperror.Validation("重置链接无效或已过期")
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Validation("重置链接无效或已过期")
		}
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal("密码哈希失败", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return apperror.Internal("更新密码失败", err)
	}

	s.logger.WithField("user_id", userID).Info("密码已重置")
	return nil
}

// InitAdmin 初始化管理员账户
// 已有管理员时不做任何事；配置的邮箱已注册时将其提升为管理员
func (s *AuthService) InitAdmin(ctx context.Context) error {
	if s.cfg.Admin.Email == "" || s.cfg.Admin.Password == "" {
		return nil
	}

	if _, err := s.userRepo.GetAdmin(ctx); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return apperror.Internal("查询管理员失败", err)
	}

	// 配置中的密码可以直接是bcrypt哈希
	passwordHash := s.cfg.Admin.Password
	if !utils.IsBcryptHash(passwordHash) {
		hashedPassword, err := utils.HashPassword(s.cfg.Admin.Password)
		if err != nil {
			return apperror.Internal("密码哈希失败", err)
		}
		passwordHash = hashedPassword
	}

	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(s.cfg.Admin.Email))
	switch {
	case err == nil:
		user.Role = models.RoleAdmin
		user.IsActive = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return apperror.Internal("更新管理员失败", err)
		}
	case repository.IsNotFound(err):
		user = &models.User{
			Name:         s.cfg.Admin.Name,
			Email:        s.cfg.Admin.Email,
			PasswordHash: passwordHash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return apperror.Internal("创建管理员失败", err)
		}
	default:
		return apperror.Internal("查询管理员失败", err)
	}

	s.logger.WithField("email", user.Email).Info("管理员账户已初始化")
	return nil
}

func (s *AuthService) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("用户不存在")
		}
		return nil, apperror.Internal("获取用户失败", err)
	}
	return user, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.jwtManager.IssueToken(identityOf(user), 0)
	if err != nil {
		return nil, apperror.Internal("生成Token失败", err)
	}
	return &dto.AuthResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(s.jwtManager.DefaultTTL().Seconds()),
		User:      toUserInfo(user),
	}, nil
}

func (s *AuthService) resetURL(token string) string {
	base := strings.TrimRight(s.cfg.Frontend.URL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}

func identityOf(user *models.User) utils.Identity {
	return utils.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}
}

func toUserInfo(user *models.User) dto.UserInfo {
	info := dto.UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
	if user.ExternalProviderID != nil {
		info.ExternalProviderID = *user.ExternalProviderID
	}
	return info
}
