package service_test

import (
	"utc-go/internal/apperror"
	"utc-go/internal/dto"
)

func (s *serviceSuite) TestAdminUserManagement() {
	admin := s.register("Admin", "a@example.com", "secret1")
	bob := s.register("Bob", "b@example.com", "secret1")

	page, err := s.users.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Equal(1, page.Page)
	s.Equal(20, page.PerPage)
	s.Len(page.Items.([]dto.UserInfo), 2)

	info, err := s.users.SetRole(s.ctx, admin.User.ID, bob.User.ID, "manager")
	s.Require().NoError(err)
	s.Equal("manager", info.Role)

	_, err = s.users.SetRole(s.ctx, admin.User.ID, bob.User.ID, "root")
	s.requireKind(err, apperror.KindValidation)

	_, err = s.users.SetActive(s.ctx, admin.User.ID, admin.User.ID, false)
	s.requireKind(err, apperror.KindValidation)

	_, err = s.users.SetActive(s.ctx, admin.User.ID, 9999, false)
	s.requireKind(err, apperror.KindNotFound)

	info, err = s.users.SetActive(s.ctx, admin.User.ID, bob.User.ID, false)
	s.Require().NoError(err)
	s.False(info.IsActive)
}
