package service_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"time"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/utils"
)

var resetLinkPattern = regexp.MustCompile(`reset-password\?token=([^"\s]+)`)

func (s *serviceSuite) register(name, email, password string) *dto.AuthResponse {
	s.T().Helper()
	resp, err := s.auth.Register(s.ctx, &dto.RegisterRequest{Name: name, Email: email, Password: password})
	s.Require().NoError(err)
	return resp
}

func (s *serviceSuite) resetTokenFromMail() string {
	s.T().Helper()
	msgs := s.sender.messages()
	s.Require().NotEmpty(msgs)
	m := resetLinkPattern.FindStringSubmatch(msgs[len(msgs)-1].TextBody)
	s.Require().Len(m, 2)
	token, err := url.QueryUnescape(m[1])
	s.Require().NoError(err)
	return token
}

func (s *serviceSuite) TestRegisterIssuesToken() {
	resp := s.register(" Bob ", "Bob@Example.com", "secret1")
	s.Equal("bob@example.com", resp.User.Email)
	s.Equal("Bob", resp.User.Name)
	s.Equal("tester", resp.User.Role)
	s.True(resp.User.IsActive)
	s.Equal("bearer", resp.TokenType)

	claims, err := s.jwt.VerifyToken(resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, claims.UserID)
	s.Equal("bob@example.com", claims.Email)
	s.Equal("tester", claims.Role)
}

func (s *serviceSuite) TestRegisterRules() {
	s.register("Bob", "bob@example.com", "secret1")

	_, err := s.auth.Register(s.ctx, &dto.RegisterRequest{Name: "Dup", Email: "BOB@example.com", Password: "secret1"})
	s.requireKind(err, apperror.KindConflict)

	_, err = s.auth.Register(s.ctx, &dto.RegisterRequest{Name: "Short", Email: "s@example.com", Password: "123"})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.auth.Register(s.ctx, &dto.RegisterRequest{Name: "Root", Email: "r@example.com", Password: "secret1", Role: "admin"})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.auth.Register(s.ctx, &dto.RegisterRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: "owner"})
	s.requireKind(err, apperror.KindValidation)

	mgr, err := s.auth.Register(s.ctx, &dto.RegisterRequest{Name: "Mgr", Email: "m@example.com", Password: "secret1", Role: "Manager"})
	s.Require().NoError(err)
	s.Equal("manager", mgr.User.Role)
}

func (s *serviceSuite) TestLogin() {
	s.register("Bob", "bob@example.com", "secret1")

	resp, err := s.auth.Login(s.ctx, &dto.LoginRequest{Email: " BOB@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	s.requireKind(err, apperror.KindAuthentication)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	s.requireKind(err, apperror.KindAuthentication)
	s.Equal("邮箱或密码错误", apperror.MessageOf(err))
}

func (s *serviceSuite) TestLoginRejectsInactiveAccount() {
	resp := s.register("Bob", "bob@example.com", "secret1")
	_, err := s.users.SetActive(s.ctx, 0, resp.User.ID, false)
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "secret1"})
	s.requireKind(err, apperror.KindAuthorization)

	active, err := s.auth.IsActive(s.ctx, resp.User.ID)
	s.Require().NoError(err)
	s.False(active)

	active, err = s.auth.IsActive(s.ctx, 9999)
	s.Require().NoError(err)
	s.False(active)
}

func (s *serviceSuite) TestUpdateProfile() {
	resp := s.register("Bob", "bob@example.com", "secret1")

	_, err := s.auth.UpdateProfile(s.ctx, resp.User.ID, &dto.UpdateProfileRequest{NewPassword: "newsecret", CurrentPassword: "bad"})
	s.requireKind(err, apperror.KindValidation)

	info, err := s.auth.UpdateProfile(s.ctx, resp.User.ID, &dto.UpdateProfileRequest{Name: " Robert ", NewPassword: "newsecret", CurrentPassword: "secret1"})
	s.Require().NoError(err)
	s.Equal("Robert", info.Name)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "newsecret"})
	s.NoError(err)

	me, err := s.auth.GetMe(s.ctx, resp.User.ID)
	s.Require().NoError(err)
	s.Equal("Robert", me.Name)

	_, err = s.auth.GetMe(s.ctx, 9999)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *serviceSuite) TestForgotPasswordSendsOneShotResetLink() {
	s.register("Bob", "bob@example.com", "secret1")

	s.auth.ForgotPassword(s.ctx, "BOB@example.com")
	s.auth.Wait()
	msgs := s.sender.messages()
	s.Require().Len(msgs, 1)
	s.Equal("bob@example.com", msgs[0].To)
	s.Contains(msgs[0].HTMLBody, "http://frontend.test/reset-password?token=")

	token := s.resetTokenFromMail()
	claims, err := s.jwt.VerifyResetToken(token)
	s.Require().NoError(err)
	s.Equal(utils.PurposePasswordReset, claims.Purpose)

	err = s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: token, NewPassword: "changed1", ConfirmPassword: "changed1"})
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "changed1"})
	s.NoError(err)

	// 同一个Token不能再次使用
	err = s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: token, NewPassword: "again11", ConfirmPassword: "again11"})
	s.requireKind(err, apperror.KindValidation)
}

func (s *serviceSuite) TestForgotPasswordUnknownOrInactiveSendsNothing() {
	s.auth.ForgotPassword(s.ctx, "nobody@example.com")
	s.auth.Wait()
	s.Empty(s.sender.messages())

	resp := s.register("Bob", "bob@example.com", "secret1")
	_, err := s.users.SetActive(s.ctx, 0, resp.User.ID, false)
	s.Require().NoError(err)
	s.auth.ForgotPassword(s.ctx, "bob@example.com")
	s.auth.Wait()
	s.Empty(s.sender.messages())
}

func (s *serviceSuite) TestForgotPasswordDoesNotWaitForDelivery() {
	s.register("Bob", "bob@example.com", "secret1")
	s.sender.release = make(chan struct{})

	ctx, cancel := context.WithCancel(s.ctx)
	returned := make(chan struct{})
	go func() {
		s.auth.ForgotPassword(ctx, "bob@example.com")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		close(s.sender.release)
		s.FailNow("ForgotPassword 阻塞在邮件发送上")
	}
	s.Empty(s.sender.messages())

	// 请求结束后后台发送仍然继续
	cancel()
	close(s.sender.release)
	s.auth.Wait()
	s.Len(s.sender.messages(), 1)
}

func (s *serviceSuite) TestForgotPasswordSwallowsDeliveryFailure() {
	s.register("Bob", "bob@example.com", "secret1")
	s.sender.err = errors.New("smtp down")

	s.NotPanics(func() {
		s.auth.ForgotPassword(s.ctx, "bob@example.com")
		s.auth.Wait()
	})
}

func (s *serviceSuite) TestResetPasswordValidation() {
	resp := s.register("Bob", "bob@example.com", "secret1")
	s.auth.ForgotPassword(s.ctx, "bob@example.com")
	s.auth.Wait()
	token := s.resetTokenFromMail()

	err := s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: token, NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
	s.requireKind(err, apperror.KindValidation)

	err = s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: token, NewPassword: "abc", ConfirmPassword: "abc"})
	s.requireKind(err, apperror.KindValidation)

	// 登录Token不能用于重置密码
	err = s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: resp.Token, NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	s.requireKind(err, apperror.KindValidation)

	// 校验失败不消耗Token
	err = s.auth.ResetPassword(s.ctx, &dto.ResetPasswordRequest{ResetToken: token, NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	s.NoError(err)
}

func (s *serviceSuite) TestInitAdmin() {
	s.Require().NoError(s.auth.InitAdmin(s.ctx))
	s.Require().NoError(s.auth.InitAdmin(s.ctx))

	admin, err := s.userRepo.GetAdmin(s.ctx)
	s.Require().NoError(err)
	s.Equal("admin@example.com", admin.Email)
	s.Equal(models.RoleAdmin, admin.Role)

	var count int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)

	_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	s.NoError(err)
}

func (s *serviceSuite) TestInitAdminPromotesExistingAccount() {
	resp := s.register("Owner", "admin@example.com", "secret1")

	s.Require().NoError(s.auth.InitAdmin(s.ctx))

	me, err := s.auth.GetMe(s.ctx, resp.User.ID)
	s.Require().NoError(err)
	s.Equal("admin", me.Role)
}
