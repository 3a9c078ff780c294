package service_test

import (
	"utc-go/internal/dto"
	"utc-go/internal/models"
)

func (s *serviceSuite) TestDashboardIncludesEveryTaskOnce() {
	untested := s.createTask("Untested", "a")
	login := s.createTask("Login", "smoke")
	cart := s.createTask("Cart", "checkout")

	s.createExecution(login.ID, "pass")
	s.createExecution(login.ID, "fail")
	s.createExecution(cart.ID, "pass")

	// 任务已删除的执行记录不会出现在仪表盘中
	orphan := &models.TestExecution{TaskID: 9999, TestID: "T", Status: models.StatusPass, Feedback: "f", TesterName: "ghost"}
	s.Require().NoError(s.execRepo.Create(s.ctx, orphan))

	board, err := s.dashboard.Build(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board.Tasks, 3)

	s.Equal(cart.ID, board.Tasks[0].ID)
	s.Equal(&dto.LatestExecution{Status: "pass", TesterName: "qa"}, board.Tasks[0].LatestExecution)

	s.Equal(login.ID, board.Tasks[1].ID)
	s.Equal("fail", board.Tasks[1].LatestExecution.Status)
	s.Equal([]string{"smoke"}, board.Tasks[1].Tags)

	s.Equal(untested.ID, board.Tasks[2].ID)
	s.Nil(board.Tasks[2].LatestExecution)

	s.Equal(dto.DashboardSummary{TotalTasks: 3, Passed: 1, Failed: 1, NotExecuted: 1}, board.Summary)
}

func (s *serviceSuite) TestDashboardEmpty() {
	board, err := s.dashboard.Build(s.ctx)
	s.Require().NoError(err)
	s.NotNil(board.Tasks)
	s.Empty(board.Tasks)
	s.Equal(dto.DashboardSummary{}, board.Summary)
}
