package service_test

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"

	"utc-go/internal/apperror"
	"utc-go/internal/config"
	"utc-go/internal/dto"
	"utc-go/internal/models"
	"utc-go/internal/repository"
	"utc-go/internal/service"
	"utc-go/internal/testutil"
	"utc-go/internal/utils"
	"utc-go/pkg/mailer"
	"utc-go/pkg/tokenstore"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// recordingSender 记录发送的邮件；release 非空时发送会阻塞到它被关闭
type recordingSender struct {
	mu      sync.Mutex
	sent    []mailer.Message
	err     error
	release chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

type serviceSuite struct {
	suite.Suite

	ctx    context.Context
	db     *gorm.DB
	cfg    *config.Config
	jwt    *utils.JWTManager
	sender *recordingSender
	tokens *tokenstore.MemoryStore

	userRepo *repository.UserRepository
	taskRepo *repository.TaskRepository
	tagRepo  *repository.TagRepository
	execRepo *repository.TestExecutionRepository

	auth       *service.AuthService
	users      *service.UserService
	tasks      *service.TaskService
	tags       *service.TagService
	executions *service.TestExecutionService
	dashboard  *service.DashboardService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(serviceSuite))
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())

	s.cfg = &config.Config{}
	s.cfg.JWT.SecretKey = "test-secret"
	s.cfg.JWT.Algorithm = "HS256"
	s.cfg.JWT.ExpireMinutes = 60
	s.cfg.JWT.ResetExpireMinutes = 60
	s.cfg.Frontend.URL = "http://frontend.test/"
	s.cfg.Admin.Name = "Administrator"
	s.cfg.Admin.Email = "Admin@Example.com"
	s.cfg.Admin.Password = "admin-pass"

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.jwt = utils.NewJWTManager(s.cfg.JWT.SecretKey, s.cfg.JWT.Algorithm, s.cfg.JWT.GetExpireDuration())
	s.sender = &recordingSender{}
	s.tokens = tokenstore.NewMemoryStore()

	s.userRepo = repository.NewUserRepository(s.db)
	s.taskRepo = repository.NewTaskRepository(s.db)
	s.tagRepo = repository.NewTagRepository(s.db)
	s.execRepo = repository.NewTestExecutionRepository(s.db)

	s.auth = service.NewAuthService(s.userRepo, s.jwt, s.tokens, s.sender, s.cfg, logger)
	s.users = service.NewUserService(s.userRepo)
	s.tasks = service.NewTaskService(s.taskRepo)
	s.tags = service.NewTagService(s.tagRepo)
	s.executions = service.NewTestExecutionService(s.execRepo, s.taskRepo)
	s.dashboard = service.NewDashboardService(s.taskRepo, s.execRepo)
}

func (s *serviceSuite) requireKind(err error, kind apperror.Kind) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(kind, apperror.KindOf(err), "unexpected error: %v", err)
}

func (s *serviceSuite) createTask(label string, tags ...string) *models.Task {
	s.T().Helper()
	task, err := s.tasks.Create(s.ctx, &dto.TaskRequest{
		UnitTestLabel: label,
		Tags:          tags,
		Description:   "description of " + label,
		TestCases:     dto.FlexibleList{"tc1", "tc2"},
	})
	s.Require().NoError(err)
	return task
}

func (s *serviceSuite) createExecution(taskID uint, status string) *dto.ExecutionResponse {
	s.T().Helper()
	exec, err := s.executions.Create(s.ctx, &dto.ExecutionRequest{
		TaskID:     idOf(taskID),
		TestID:     "T-" + status,
		Status:     status,
		Feedback:   "feedback",
		TesterName: "qa",
	})
	s.Require().NoError(err)
	return exec
}

func idOf(id uint) dto.FlexibleID {
	return dto.FlexibleID(strconv.FormatUint(uint64(id), 10))
}
