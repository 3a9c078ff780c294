package repository

import (
	"context"

	"utc-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository 标签数据访问层
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签Repository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create 创建标签
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tag).Error
}

// GetByID 根据ID获取标签
func (r *TagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Preload("Creator").First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update 更新标签
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tag).Error
}

// Delete 删除标签（物理删除）
func (r *TagRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	return result.RowsAffected > 0, result.Error
}

// ListActiveLabels 获取启用标签的名称（按字母排序）
func (r *TagRepository) ListActiveLabels(ctx context.Context) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("is_active = ?", true).
		Order("label ASC").
		Pluck("label", &labels).Error
	return labels, err
}

// ListWithCreator 获取完整标签列表（含创建人，按创建时间倒序）
func (r *TagRepository) ListWithCreator(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	var tags []models.Tag
	query := r.db.WithContext(ctx).Preload("Creator")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&tags).Error
	return tags, err
}
