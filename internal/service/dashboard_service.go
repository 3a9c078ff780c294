package service

import (
	"context"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
)

// DashboardService 仪表盘聚合
type DashboardService struct {
	taskRepo *repository.TaskRepository
	execRepo *repository.TestExecutionRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(taskRepo *repository.TaskRepository, execRepo *repository.TestExecutionRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		execRepo: execRepo,
	}
}

// Build 每个任务关联其最新一次执行；没有执行记录的任务 latestExecution 为 null
func (s *DashboardService) Build(ctx context.Context) (*dto.DashboardResponse, error) {
	tasks, err := s.taskRepo.ListSummaries(ctx)
	if err != nil {
		return nil, apperror.Internal("获取任务列表失败", err)
	}
	executions, err := s.execRepo.ListStatusSummaries(ctx)
	if err != nil {
		return nil, apperror.Internal("获取执行记录失败", err)
	}

	latestByTask := make(map[uint]models.TestExecution)
	for _, execution := range LatestPerTask(executions) {
		latestByTask[execution.TaskID] = execution
	}

	resp := &dto.DashboardResponse{
		Tasks:   make([]dto.DashboardItem, 0, len(tasks)),
		Summary: dto.DashboardSummary{TotalTasks: len(tasks)},
	}
	for _, task := range tasks {
		item := dto.DashboardItem{
			ID:            task.ID,
			UnitTestLabel: task.UnitTestLabel,
			Tags:          nonNil(task.Tags),
		}
		if execution, ok := latestByTask[task.ID]; ok {
			item.LatestExecution = &dto.LatestExecution{
				Status:     string(execution.Status),
				TesterName: execution.TesterName,
			}
			if execution.Status == models.StatusPass {
				resp.Summary.Passed++
			} else {
				resp.Summary.Failed++
			}
		} else {
			resp.Summary.NotExecuted++
		}
		resp.Tasks = append(resp.Tasks, item)
	}
	return resp, nil
}
