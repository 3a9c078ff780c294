package service_test

import (
	"strings"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/service"
)

func (s *serviceSuite) createUser(name, email string) *models.User {
	s.T().Helper()
	user := &models.User{Name: name, Email: email, Role: models.RoleTester, IsActive: true}
	s.Require().NoError(s.userRepo.Create(s.ctx, user))
	return user
}

func (s *serviceSuite) TestCreateTagRecordsCreator() {
	user := s.createUser("Alice", "alice@example.com")

	tag, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{
		Label:       "  Checkout ",
		TagType:     dto.FlexibleList{"Feature", "Sprints"},
		Description: " cart flows ",
	})
	s.Require().NoError(err)
	s.Equal("Checkout", tag.Label)
	s.Equal([]string{"Feature", "Sprints"}, tag.TagType)
	s.Equal("cart flows", tag.Description)
	s.True(tag.IsActive)
	s.Require().NotNil(tag.CreatedBy)
	s.Equal("alice@example.com", tag.CreatedBy.Email)
}

func (s *serviceSuite) TestForeignTagTypeRejectsWholeRequest() {
	user := s.createUser("Alice", "alice@example.com")

	_, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{
		Label:   "Mixed",
		TagType: dto.FlexibleList{"Feature", "Bogus"},
	})
	s.requireKind(err, apperror.KindValidation)

	// 空白项不会被悄悄过滤
	for _, types := range []dto.FlexibleList{{"Feature", ""}, {"  ", "Device"}} {
		_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "Blank", TagType: types})
		s.requireKind(err, apperror.KindValidation)
	}

	// 类型区分大小写
	_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "Lower", TagType: dto.FlexibleList{"feature"}})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "Empty"})
	s.requireKind(err, apperror.KindValidation)

	labels, err := s.tags.ListLabels(s.ctx)
	s.Require().NoError(err)
	s.Empty(labels)
}

func (s *serviceSuite) TestTagDescriptionLimit() {
	user := s.createUser("Alice", "alice@example.com")

	_, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{
		Label:       "Long",
		TagType:     dto.FlexibleList{"Device"},
		Description: strings.Repeat("x", models.TagDescriptionMaxLen+1),
	})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{
		Label:       "Exact",
		TagType:     dto.FlexibleList{"Device"},
		Description: strings.Repeat("界", models.TagDescriptionMaxLen),
	})
	s.NoError(err)
}

func (s *serviceSuite) TestTagUniquenessIncludesInactive() {
	user := s.createUser("Alice", "alice@example.com")
	inactive := false

	first, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{
		Label:    "Android",
		TagType:  dto.FlexibleList{"Device"},
		IsActive: &inactive,
	})
	s.Require().NoError(err)
	s.False(first.IsActive)

	_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "ANDROID", TagType: dto.FlexibleList{"Device"}})
	s.requireKind(err, apperror.KindConflict)

	// 子串不算重复
	_, err = s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "Android 14", TagType: dto.FlexibleList{"Device"}})
	s.NoError(err)

	updated, err := s.tags.Update(s.ctx, first.ID, &dto.TagRequest{Label: "android", TagType: dto.FlexibleList{"Device", "Environment"}})
	s.Require().NoError(err)
	s.Equal("android", updated.Label)
	s.False(updated.IsActive, "isActive keeps its value when omitted")
}

func (s *serviceSuite) TestListTags() {
	user := s.createUser("Alice", "alice@example.com")
	inactive := false
	for _, label := range []string{"beta", "Alpha", "gamma"} {
		_, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: label, TagType: dto.FlexibleList{"Feature"}})
		s.Require().NoError(err)
	}
	_, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "hidden", TagType: dto.FlexibleList{"Feature"}, IsActive: &inactive})
	s.Require().NoError(err)

	result, err := s.tags.List(s.ctx, service.TagFilter{})
	s.Require().NoError(err)
	s.Equal([]dto.TagLabel{{Label: "Alpha"}, {Label: "beta"}, {Label: "gamma"}}, result)

	result, err = s.tags.List(s.ctx, service.TagFilter{IncludeDetails: true})
	s.Require().NoError(err)
	details := result.([]dto.TagResponse)
	s.Require().Len(details, 4)
	s.Equal("hidden", details[0].Label)
	s.Equal("beta", details[3].Label)
	s.Equal("Alice", details[0].CreatedBy.Name)

	result, err = s.tags.List(s.ctx, service.TagFilter{IncludeDetails: true, ActiveOnly: true})
	s.Require().NoError(err)
	s.Len(result.([]dto.TagResponse), 3)
}

func (s *serviceSuite) TestDeleteTag() {
	user := s.createUser("Alice", "alice@example.com")
	tag, err := s.tags.Create(s.ctx, user.ID, &dto.TagRequest{Label: "gone", TagType: dto.FlexibleList{"Feature"}})
	s.Require().NoError(err)

	s.Require().NoError(s.tags.Delete(s.ctx, tag.ID))
	s.requireKind(s.tags.Delete(s.ctx, tag.ID), apperror.KindNotFound)

	_, err = s.tags.Update(s.ctx, tag.ID, &dto.TagRequest{Label: "gone", TagType: dto.FlexibleList{"Feature"}})
	s.requireKind(err, apperror.KindNotFound)
}
