package service

import (
	"context"
	"strings"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
)

// TaskService 测试用例（Task）服务
type TaskService struct {
	taskRepo *repository.TaskRepository
}

// NewTaskService 创建任务服务
func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// Create 创建任务
func (s *TaskService) Create(ctx context.Context, req *dto.TaskRequest) (*models.Task, error) {
	task := &models.Task{}
	if err := applyTaskRequest(task, req); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, translateTaskWriteError(task, err, "创建任务失败")
	}
	return task, nil
}

// Update 更新任务，唯一性检查排除自身
func (s *TaskService) Update(ctx context.Context, id uint, req *dto.TaskRequest) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTaskRequest(task, req); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, translateTaskWriteError(task, err, "更新任务失败")
	}
	return task, nil
}

// Delete 删除任务，不影响引用它的执行记录
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return apperror.Internal("删除任务失败", err)
	}
	if !deleted {
		return apperror.NotFound("任务不存在")
	}
	return nil
}

// List 获取全部任务（按创建时间倒序）
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("获取任务列表失败", err)
	}
	return tasks, nil
}

// Get 获取任务详情
func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("任务不存在")
		}
		return nil, apperror.Internal("获取任务失败", err)
	}
	return task, nil
}

// applyTaskRequest 校验并写入任务字段，所有字符串去除首尾空白，空的标签和用例被过滤
func applyTaskRequest(task *models.Task, req *dto.TaskRequest) error {
	label := strings.TrimSpace(req.UnitTestLabel)
	if label == "" {
		return apperror.Validation("unitTestLabel不能为空")
	}
	tags := models.CleanStringList(req.Tags)
	if len(tags) == 0 {
		return apperror.Validation("tags至少需要一个非空标签")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return apperror.Validation("description不能为空")
	}
	testCases := models.CleanStringList(req.TestCases)
	if len(testCases) == 0 {
		return apperror.Validation("testCases至少需要一个非空用例")
	}

	task.UnitTestLabel = label
	task.Tags = tags
	task.Description = description
	task.TestCases = testCases
	task.Notes = strings.TrimSpace(req.Notes)
	task.AttachedImages = models.CleanStringList(req.AttachedImages)
	return nil
}

func translateTaskWriteError(task *models.Task, err error, message string) error {
	if repository.IsDuplicateKey(err) {
		return apperror.Conflict("unitTestLabel \"%s\" 已存在", task.UnitTestLabel)
	}
	return apperror.Internal(message, err)
}
