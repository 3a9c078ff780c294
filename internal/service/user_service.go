package service

import (
	"context"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
)

// UserService 管理员的用户管理
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List 分页获取用户
func (s *UserService) List(ctx context.Context, page, perPage int) (*dto.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	users, total, err := s.userRepo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, apperror.Internal("获取用户列表失败", err)
	}

	items := make([]dto.UserInfo, len(users))
	for i := range users {
		items[i] = toUserInfo(&users[i])
	}
	return &dto.PaginatedResponse{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// SetActive 启用或停用账户，管理员不能停用自己
func (s *UserService) SetActive(ctx context.Context, actorID, userID uint, active bool) (*dto.UserInfo, error) {
	if actorID == userID && !active {
		return nil, apperror.Validation("不能停用自己的账户")
	}
	return s.update(ctx, userID, func(user *models.User) {
		user.IsActive = active
	})
}

// SetRole 修改角色，管理员不能撤销自己的管理员角色
func (s *UserService) SetRole(ctx context.Context, actorID, userID uint, role string) (*dto.UserInfo, error) {
	r := models.Role(role)
	if !r.Valid() {
		return nil, apperror.Validation("无效的角色: %s", role)
	}
	if actorID == userID && r != models.RoleAdmin {
		return nil, apperror.Validation("不能撤销自己的管理员角色")
	}
	return s.update(ctx, userID, func(user *models.User) {
		user.Role = r
	})
}

func (s *UserService) update(ctx context.Context, userID uint, mutate func(*models.User)) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("用户不存在")
		}
		return nil, apperror.Internal("获取用户失败", err)
	}

	mutate(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal("更新用户失败", err)
	}
	info := toUserInfo(user)
	return &info, nil
}
