package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
)

// TagFilter 标签列表查询条件
type TagFilter struct {
	ActiveOnly     bool
	IncludeDetails bool
}

// TagService 标签服务
type TagService struct {
	tagRepo *repository.TagRepository
}

// NewTagService 创建标签服务
func NewTagService(tagRepo *repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// Create 创建标签，createdBy 记录当前用户
func (s *TagService) Create(ctx context.Context, userID uint, req *dto.TagRequest) (*dto.TagResponse, error) {
	tag := &models.Tag{CreatedBy: userID, IsActive: true}
	if err := applyTagRequest(tag, req); err != nil {
		return nil, err
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, translateTagWriteError(tag, err, "创建标签失败")
	}
	return s.reload(ctx, tag.ID)
}

// Update 更新标签，唯一性检查排除自身
func (s *TagService) Update(ctx context.Context, id uint, req *dto.TagRequest) (*dto.TagResponse, error) {
	tag, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTagRequest(tag, req); err != nil {
		return nil, err
	}

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, translateTagWriteError(tag, err, "更新标签失败")
	}
	return s.reload(ctx, tag.ID)
}

// Delete 物理删除标签
func (s *TagService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.tagRepo.Delete(ctx, id)
	if err != nil {
		return apperror.Internal("删除标签失败", err)
	}
	if !deleted {
		return apperror.NotFound("标签不存在")
	}
	return nil
}

// List 不带详情时返回启用标签的名称（字母序），带详情时返回完整记录（新的在前）
func (s *TagService) List(ctx context.Context, filter TagFilter) (interface{}, error) {
	if !filter.IncludeDetails {
		return s.ListLabels(ctx)
	}
	return s.ListDetails(ctx, filter.ActiveOnly)
}

// ListLabels 自动补全使用的标签名称列表
func (s *TagService) ListLabels(ctx context.Context) ([]dto.TagLabel, error) {
	labels, err := s.tagRepo.ListActiveLabels(ctx)
	if err != nil {
		return nil, apperror.Internal("获取标签列表失败", err)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})

	result := make([]dto.TagLabel, len(labels))
	for i, label := range labels {
		result[i] = dto.TagLabel{Label: label}
	}
	return result, nil
}

// ListDetails 完整标签列表
func (s *TagService) ListDetails(ctx context.Context, activeOnly bool) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.ListWithCreator(ctx, activeOnly)
	if err != nil {
		return nil, apperror.Internal("获取标签列表失败", err)
	}

	result := make([]dto.TagResponse, len(tags))
	for i := range tags {
		result[i] = toTagResponse(&tags[i])
	}
	return result, nil
}

func (s *TagService) get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("标签不存在")
		}
		return nil, apperror.Internal("获取标签失败", err)
	}
	return tag, nil
}

func (s *TagService) reload(ctx context.Context, id uint) (*dto.TagResponse, error) {
	tag, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTagResponse(tag)
	return &resp, nil
}

// applyTagRequest 校验并写入标签字段，tagType 中出现任何非法值都拒绝整个请求
func applyTagRequest(tag *models.Tag, req *dto.TagRequest) error {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return apperror.Validation("label不能为空")
	}

	if len(req.TagType) == 0 {
		return apperror.Validation("tagType至少需要一个值")
	}
	// 空白项同样是非法值，不做过滤
	tagTypes := make(models.StringList, 0, len(req.TagType))
	for _, t := range req.TagType {
		t = strings.TrimSpace(t)
		if !models.ValidTagType(t) {
			return apperror.Validation("无效的tagType: %q", t)
		}
		tagTypes = append(tagTypes, t)
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > models.TagDescriptionMaxLen {
		return apperror.Validation("description不能超过%d个字符", models.TagDescriptionMaxLen)
	}

	tag.Label = label
	tag.TagType = tagTypes
	tag.Description = description
	if req.IsActive != nil {
		tag.IsActive = *req.IsActive
	}
	return nil
}

func translateTagWriteError(tag *models.Tag, err error, message string) error {
	if repository.IsDuplicateKey(err) {
		return apperror.Conflict("label \"%s\" 已存在", tag.Label)
	}
	return apperror.Internal(message, err)
}

func toTagResponse(tag *models.Tag) dto.TagResponse {
	resp := dto.TagResponse{
		ID:          tag.ID,
		Label:       tag.Label,
		TagType:     nonNil(tag.TagType),
		Description: tag.Description,
		IsActive:    tag.IsActive,
		CreatedAt:   tag.CreatedAt,
		UpdatedAt:   tag.UpdatedAt,
	}
	if tag.Creator != nil {
		resp.CreatedBy = &dto.UserSummary{
			ID:    tag.Creator.ID,
			Name:  tag.Creator.Name,
			Email: tag.Creator.Email,
		}
	}
	return resp
}
