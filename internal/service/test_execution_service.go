package service

import (
	"context"
	"sort"
	"strings"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
)

// TestExecutionService 执行记录服务
type TestExecutionService struct {
	execRepo *repository.TestExecutionRepository
	taskRepo *repository.TaskRepository
}

// NewTestExecutionService 创建执行记录服务
func NewTestExecutionService(execRepo *repository.TestExecutionRepository, taskRepo *repository.TaskRepository) *TestExecutionService {
	return &TestExecutionService{
		execRepo: execRepo,
		taskRepo: taskRepo,
	}
}

// executionInput 校验后的执行记录输入
type executionInput struct {
	taskID         uint
	testID         string
	status         models.ExecutionStatus
	feedback       string
	testerName     string
	attachedImages models.StringList
	testCases      models.TestCaseResults
}

// Create 新建执行记录，总是插入新行
func (s *TestExecutionService) Create(ctx context.Context, req *dto.ExecutionRequest) (*dto.ExecutionResponse, error) {
	input, err := parseExecutionRequest(req)
	if err != nil {
		return nil, err
	}
	task, err := s.resolveTask(ctx, input.taskID)
	if err != nil {
		return nil, err
	}

	execution := &models.TestExecution{}
	input.apply(execution, task)
	if err := s.execRepo.Create(ctx, execution); err != nil {
		return nil, apperror.Internal("创建执行记录失败", err)
	}

	execution.Task = task
	resp := toExecutionResponse(execution)
	return &resp, nil
}

// Get 获取执行记录详情
func (s *TestExecutionService) Get(ctx context.Context, id uint) (*dto.ExecutionResponse, error) {
	execution, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExecutionResponse(execution)
	return &resp, nil
}

// Update 更新执行记录，计数总是由用例列表重新计算
func (s *TestExecutionService) Update(ctx context.Context, id uint, req *dto.ExecutionRequest) (*dto.ExecutionResponse, error) {
	execution, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	input, err := parseExecutionRequest(req)
	if err != nil {
		return nil, err
	}
	task, err := s.resolveTask(ctx, input.taskID)
	if err != nil {
		return nil, err
	}

	input.apply(execution, task)
	execution.Task = nil
	if err := s.execRepo.Update(ctx, execution); err != nil {
		return nil, apperror.Internal("更新执行记录失败", err)
	}

	execution.Task = task
	resp := toExecutionResponse(execution)
	return &resp, nil
}

// Delete 删除执行记录
func (s *TestExecutionService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.execRepo.Delete(ctx, id)
	if err != nil {
		return apperror.Internal("删除执行记录失败", err)
	}
	if !deleted {
		return apperror.NotFound("执行记录不存在")
	}
	return nil
}

// List 按条件查询执行记录
func (s *TestExecutionService) List(ctx context.Context, filter dto.ExecutionFilter) ([]dto.ExecutionResponse, error) {
	executions, err := s.execRepo.ListWithTask(ctx)
	if err != nil {
		return nil, apperror.Internal("获取执行记录失败", err)
	}
	return toExecutionResponses(FilterExecutions(executions, filter)), nil
}

// ListByTask 获取某个任务的全部执行记录（新的在前）
func (s *TestExecutionService) ListByTask(ctx context.Context, taskID uint) ([]dto.ExecutionResponse, error) {
	executions, err := s.execRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, apperror.Internal("获取执行记录失败", err)
	}
	sortNewestFirst(executions)
	return toExecutionResponses(executions), nil
}

func (s *TestExecutionService) get(ctx context.Context, id uint) (*models.TestExecution, error) {
	execution, err := s.execRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("执行记录不存在")
		}
		return nil, apperror.Internal("获取执行记录失败", err)
	}
	return execution, nil
}

func (s *TestExecutionService) resolveTask(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("任务不存在")
		}
		return nil, apperror.Internal("获取任务失败", err)
	}
	return task, nil
}

// FilterExecutions 对已关联任务的执行记录做过滤
// status/label/tags 同时出现时取交集；latest 仅在没有其他条件时生效，此时每个任务只保留最新一条
func FilterExecutions(executions []models.TestExecution, filter dto.ExecutionFilter) []models.TestExecution {
	status := lowerTrim(filter.Status)
	label := lowerTrim(filter.Label)
	tags := make([]string, 0, len(filter.Tags))
	for _, tag := range filter.Tags {
		if tag = lowerTrim(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	hasFilter := status != "" || label != "" || len(tags) > 0

	result := make([]models.TestExecution, 0, len(executions))
	for _, execution := range executions {
		if status != "" && strings.ToLower(string(execution.Status)) != status {
			continue
		}
		if label != "" && (execution.Task == nil || !strings.Contains(strings.ToLower(execution.Task.UnitTestLabel), label)) {
			continue
		}
		if len(tags) > 0 && (execution.Task == nil || !matchAnyTag(execution.Task.Tags, tags)) {
			continue
		}
		result = append(result, execution)
	}

	if filter.Latest && !hasFilter {
		result = LatestPerTask(result)
	}
	sortNewestFirst(result)
	return result
}

// LatestPerTask 每个任务只保留创建时间最新的一条，时间相同时 ID 大者胜出
func LatestPerTask(executions []models.TestExecution) []models.TestExecution {
	index := make(map[uint]int, len(executions))
	latest := make([]models.TestExecution, 0, len(executions))
	for _, execution := range executions {
		i, ok := index[execution.TaskID]
		if !ok {
			index[execution.TaskID] = len(latest)
			latest = append(latest, execution)
			continue
		}
		if execution.NewerThan(&latest[i]) {
			latest[i] = execution
		}
	}
	return latest
}

// matchAnyTag 任务的任意标签包含任意过滤词（均已小写）
func matchAnyTag(taskTags []string, filters []string) bool {
	for _, taskTag := range taskTags {
		taskTag = strings.ToLower(taskTag)
		for _, f := range filters {
			if strings.Contains(taskTag, f) {
				return true
			}
		}
	}
	return false
}

func sortNewestFirst(executions []models.TestExecution) {
	sort.SliceStable(executions, func(i, j int) bool {
		return executions[i].NewerThan(&executions[j])
	})
}

func parseExecutionRequest(req *dto.ExecutionRequest) (*executionInput, error) {
	taskID, err := ParseID(string(req.TaskID), "taskId")
	if err != nil {
		return nil, err
	}

	testID := strings.TrimSpace(req.TestID)
	if testID == "" {
		testID = strings.TrimSpace(req.ExecID)
	}
	if testID == "" {
		return nil, apperror.Validation("testId不能为空")
	}
	feedback := strings.TrimSpace(req.Feedback)
	if feedback == "" {
		return nil, apperror.Validation("feedback不能为空")
	}
	testerName := strings.TrimSpace(req.TesterName)
	if testerName == "" {
		return nil, apperror.Validation("testerName不能为空")
	}
	status, ok := models.ParseExecutionStatus(req.Status)
	if !ok {
		return nil, apperror.Validation("status只能为pass或fail")
	}

	testCases := make(models.TestCaseResults, 0, len(req.TestCases))
	for _, tc := range req.TestCases {
		name := strings.TrimSpace(tc.TestCase)
		if name == "" {
			continue
		}
		testCases = append(testCases, models.TestCaseResult{
			TestCase: name,
			Passed:   tc.Passed,
			Notes:    strings.TrimSpace(tc.Notes),
		})
	}

	return &executionInput{
		taskID:         taskID,
		testID:         testID,
		status:         status,
		feedback:       feedback,
		testerName:     testerName,
		attachedImages: models.CleanStringList(req.AttachedImages),
		testCases:      testCases,
	}, nil
}

// apply 写入执行记录；未逐条提交用例时以任务标签生成一条合成用例
func (in *executionInput) apply(execution *models.TestExecution, task *models.Task) {
	testCases := in.testCases
	if len(testCases) == 0 {
		testCases = models.TestCaseResults{{
			TestCase: task.UnitTestLabel,
			Passed:   in.status == models.StatusPass,
		}}
	}

	execution.TaskID = task.ID
	execution.TestID = in.testID
	execution.Status = in.status
	execution.Feedback = in.feedback
	execution.TesterName = in.testerName
	execution.AttachedImages = in.attachedImages
	execution.TestCases = testCases
	execution.Recount()
}

func toExecutionResponses(executions []models.TestExecution) []dto.ExecutionResponse {
	result := make([]dto.ExecutionResponse, len(executions))
	for i := range executions {
		result[i] = toExecutionResponse(&executions[i])
	}
	return result
}

func toExecutionResponse(execution *models.TestExecution) dto.ExecutionResponse {
	testCases := make([]dto.TestCaseInput, len(execution.TestCases))
	for i, tc := range execution.TestCases {
		testCases[i] = dto.TestCaseInput{TestCase: tc.TestCase, Passed: tc.Passed, Notes: tc.Notes}
	}

	resp := dto.ExecutionResponse{
		ID:              execution.ID,
		TaskID:          execution.TaskID,
		TestID:          execution.TestID,
		Status:          string(execution.Status),
		Feedback:        execution.Feedback,
		AttachedImages:  nonNil(execution.AttachedImages),
		TesterName:      execution.TesterName,
		TestCases:       testCases,
		PassedTestCases: execution.PassedTestCases,
		TotalTestCases:  execution.TotalTestCases,
		CreatedAt:       execution.CreatedAt,
		UpdatedAt:       execution.UpdatedAt,
	}
	if execution.Task != nil {
		resp.Task = &dto.TaskSummary{
			ID:            execution.Task.ID,
			UnitTestLabel: execution.Task.UnitTestLabel,
			Description:   execution.Task.Description,
			Tags:          nonNil(execution.Task.Tags),
		}
	}
	return resp
}
