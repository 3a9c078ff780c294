package router

import (
	"net/http"

	"utc-go/internal/config"
	"utc-go/internal/handler"
	"utc-go/internal/middleware"
	"utc-go/internal/repository"
	"utc-go/internal/service"
	"utc-go/internal/utils"
	"utc-go/pkg/mailer"
	"utc-go/pkg/storage"
	"utc-go/pkg/tokenstore"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies 路由依赖的基础设施
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	DB       *gorm.DB
	JWT      *utils.JWTManager
	Tokens   tokenstore.Store
	Mailer   mailer.Sender
	Storage  storage.Store
	Registry *prometheus.Registry
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger

	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))
	if deps.Registry != nil {
		r.Use(middleware.NewMetrics(deps.Registry).Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UTC 测试用例与执行记录管理 API",
			"version": "1.0.0",
		})
	})

	// 初始化Repository
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	tagRepo := repository.NewTagRepository(deps.DB)
	execRepo := repository.NewTestExecutionRepository(deps.DB)

	// 初始化Service
	authService := service.NewAuthService(userRepo, deps.JWT, deps.Tokens, deps.Mailer, cfg, logger)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo)
	tagService := service.NewTagService(tagRepo)
	executionService := service.NewTestExecutionService(execRepo, taskRepo)
	dashboardService := service.NewDashboardService(taskRepo, execRepo)
	uploadService := service.NewUploadService(deps.Storage, cfg.Upload.GetMaxFileBytes(), logger)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService, handler.CookieOptions{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.Server.ProductionMode,
	}, logger)
	adminHandler := handler.NewAdminHandler(userService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	executionHandler := handler.NewTestExecutionHandler(executionService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	healthHandler := handler.NewHealthHandler(deps.DB, logger)

	r.GET("/healthz", healthHandler.Healthz)

	// 本地存储的图片直接由服务端提供
	if local, ok := deps.Storage.(*storage.LocalStore); ok {
		r.Static(cfg.Upload.PublicPrefix, local.Root())
	}

	requireAuth := middleware.AuthMiddleware(deps.JWT, cfg.JWT.CookieName, authService, logger)
	// 读接口默认需要登录，auth.public_reads 打开时允许匿名读取
	readAuth := requireAuth
	if cfg.Auth.PublicReads {
		readAuth = middleware.OptionalAuth(deps.JWT, cfg.JWT.CookieName)
	}

	// 认证路由
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.GetMe)
		auth.PUT("/me", requireAuth, authHandler.UpdateMe)
	}

	// 标签：列表公开（自动补全），写操作需要登录
	tags := r.Group("/tags")
	{
		tags.GET("", tagHandler.ListTags)
		tags.POST("", requireAuth, tagHandler.CreateTag)
		tags.PUT("/:id", requireAuth, tagHandler.UpdateTag)
		tags.DELETE("/:id", requireAuth, tagHandler.DeleteTag)
	}

	// 任务
	tasks := r.Group("/tasks")
	{
		tasks.GET("", readAuth, taskHandler.ListTasks)
		tasks.GET("/:id", readAuth, taskHandler.GetTask)
		tasks.POST("", requireAuth, taskHandler.CreateTask)
		tasks.PUT("/:id", requireAuth, taskHandler.UpdateTask)
		tasks.DELETE("/:id", requireAuth, taskHandler.DeleteTask)
	}

	// 执行记录
	executions := r.Group("/test-executions")
	{
		executions.GET("", readAuth, executionHandler.ListExecutions)
		executions.GET("/by-task/:taskId", readAuth, executionHandler.ListByTask)
		executions.GET("/:id", readAuth, executionHandler.GetExecution)
		executions.POST("", requireAuth, executionHandler.CreateExecution)
		executions.PUT("/:id", requireAuth, executionHandler.UpdateExecution)
		executions.DELETE("/:id", requireAuth, executionHandler.DeleteExecution)
	}

	r.GET("/dashboard", readAuth, dashboardHandler.GetDashboard)
	r.POST("/upload", requireAuth, uploadHandler.Upload)

	// 管理员接口
	admin := r.Group("/admin", requireAuth, middleware.AdminMiddleware())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
		admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "接口不存在")
	})

	return r
}
