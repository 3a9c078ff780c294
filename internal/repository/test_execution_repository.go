package repository

import (
	"context"

	"utc-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TestExecutionRepository 执行记录数据访问层
type TestExecutionRepository struct {
	db *gorm.DB
}

// NewTestExecutionRepository 创建执行记录Repository
func NewTestExecutionRepository(db *gorm.DB) *TestExecutionRepository {
	return &TestExecutionRepository{db: db}
}

// Create 新增执行记录（总是插入新行）
func (r *TestExecutionRepository) Create(ctx context.Context, execution *models.TestExecution) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(execution).Error
}

// GetByID 根据ID获取执行记录（含任务）
func (r *TestExecutionRepository) GetByID(ctx context.Context, id uint) (*models.TestExecution, error) {
	var execution models.TestExecution
	err := r.db.WithContext(ctx).Preload("Task").First(&execution, id).Error
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

// Update 更新执行记录
func (r *TestExecutionRepository) Update(ctx context.Context, execution *models.TestExecution) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(execution).Error
}

// Delete 删除执行记录
func (r *TestExecutionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.TestExecution{}, id)
	return result.RowsAffected > 0, result.Error
}

// ListWithTask 获取全部执行记录并关联任务（按创建时间倒序）
func (r *TestExecutionRepository) ListWithTask(ctx context.Context) ([]models.TestExecution, error) {
	var executions []models.TestExecution
	err := r.db.WithContext(ctx).Preload("Task").
		Order("created_at DESC").Order("id DESC").
		Find(&executions).Error
	return executions, err
}

// ListByTaskID 获取某个任务的执行记录
func (r *TestExecutionRepository) ListByTaskID(ctx context.Context, taskID uint) ([]models.TestExecution, error) {
	var executions []models.TestExecution
	err := r.db.WithContext(ctx).
		Preload("Task", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "unit_test_label", "tags", "description")
		}).
		Where("task_id = ?", taskID).
		Order("created_at DESC").Order("id DESC").
		Find(&executions).Error
	return executions, err
}

// ListStatusSummaries 获取所有执行记录的状态投影（供仪表盘分组）
func (r *TestExecutionRepository) ListStatusSummaries(ctx context.Context) ([]models.TestExecution, error) {
	var executions []models.TestExecution
	err := r.db.WithContext(ctx).
		Select("id", "task_id", "status", "tester_name", "created_at").
		Order("created_at DESC").Order("id DESC").
		Find(&executions).Error
	return executions, err
}
