package service_test

import (
	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/service"
)

func (s *serviceSuite) TestCreateTaskTrimsAndFilters() {
	task, err := s.tasks.Create(s.ctx, &dto.TaskRequest{
		UnitTestLabel:  "  Login works  ",
		Tags:           dto.FlexibleList{"  ", "smoke"},
		Description:    " d ",
		TestCases:      dto.FlexibleList{"tc1", ""},
		Notes:          "  note ",
		AttachedImages: dto.FlexibleList{"", "/uploads/a.png"},
	})
	s.Require().NoError(err)

	got, err := s.tasks.Get(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal("Login works", got.UnitTestLabel)
	s.Equal([]string{"smoke"}, []string(got.Tags))
	s.Equal("d", got.Description)
	s.Equal([]string{"tc1"}, []string(got.TestCases))
	s.Equal("note", got.Notes)
	s.Equal([]string{"/uploads/a.png"}, []string(got.AttachedImages))
}

func (s *serviceSuite) TestCreateTaskValidation() {
	cases := map[string]dto.TaskRequest{
		"missing label":     {Tags: dto.FlexibleList{"a"}, Description: "d", TestCases: dto.FlexibleList{"t"}},
		"blank tags only":   {UnitTestLabel: "x", Tags: dto.FlexibleList{" ", ""}, Description: "d", TestCases: dto.FlexibleList{"t"}},
		"blank description": {UnitTestLabel: "x", Tags: dto.FlexibleList{"a"}, Description: "   ", TestCases: dto.FlexibleList{"t"}},
		"no test cases":     {UnitTestLabel: "x", Tags: dto.FlexibleList{"a"}, Description: "d"},
		"blank test cases":  {UnitTestLabel: "x", Tags: dto.FlexibleList{"a"}, Description: "d", TestCases: dto.FlexibleList{"  "}},
	}
	for name, req := range cases {
		req := req
		_, err := s.tasks.Create(s.ctx, &req)
		s.Equal(apperror.KindValidation, apperror.KindOf(err), name)
	}
}

func (s *serviceSuite) TestTaskLabelConflictIsCaseInsensitive() {
	s.createTask("Login", "smoke")

	_, err := s.tasks.Create(s.ctx, &dto.TaskRequest{
		UnitTestLabel: "LOGIN",
		Tags:          dto.FlexibleList{"a"},
		Description:   "d",
		TestCases:     dto.FlexibleList{"t"},
	})
	s.requireKind(err, apperror.KindConflict)
	s.Contains(apperror.MessageOf(err), "unitTestLabel")
}

func (s *serviceSuite) TestUpdateTaskExcludesSelfFromUniqueness() {
	first := s.createTask("Login", "smoke")
	s.createTask("Logout", "smoke")

	updated, err := s.tasks.Update(s.ctx, first.ID, &dto.TaskRequest{
		UnitTestLabel: "login",
		Tags:          dto.FlexibleList{"regression"},
		Description:   "new",
		TestCases:     dto.FlexibleList{"t"},
	})
	s.Require().NoError(err)
	s.Equal("login", updated.UnitTestLabel)

	_, err = s.tasks.Update(s.ctx, first.ID, &dto.TaskRequest{
		UnitTestLabel: "LOGOUT",
		Tags:          dto.FlexibleList{"a"},
		Description:   "d",
		TestCases:     dto.FlexibleList{"t"},
	})
	s.requireKind(err, apperror.KindConflict)

	_, err = s.tasks.Update(s.ctx, 9999, &dto.TaskRequest{
		UnitTestLabel: "x",
		Tags:          dto.FlexibleList{"a"},
		Description:   "d",
		TestCases:     dto.FlexibleList{"t"},
	})
	s.requireKind(err, apperror.KindNotFound)
}

func (s *serviceSuite) TestDeleteTaskKeepsExecutions() {
	task := s.createTask("Login", "smoke")
	exec := s.createExecution(task.ID, "pass")

	s.Require().NoError(s.tasks.Delete(s.ctx, task.ID))
	s.requireKind(s.tasks.Delete(s.ctx, task.ID), apperror.KindNotFound)

	_, err := s.tasks.Get(s.ctx, task.ID)
	s.requireKind(err, apperror.KindNotFound)

	orphan, err := s.executions.Get(s.ctx, exec.ID)
	s.Require().NoError(err)
	s.Nil(orphan.Task)
}

func (s *serviceSuite) TestListTasksNewestFirst() {
	a := s.createTask("A", "x")
	b := s.createTask("B", "x")

	tasks, err := s.tasks.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal(b.ID, tasks[0].ID)
	s.Equal(a.ID, tasks[1].ID)
}

func (s *serviceSuite) TestParseID() {
	id, err := service.ParseID(" 42 ", "id")
	s.Require().NoError(err)
	s.Equal(uint(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "64f1c2"} {
		_, err := service.ParseID(raw, "id")
		s.requireKind(err, apperror.KindValidation)
	}
}
