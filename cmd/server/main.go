package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"utc-go/internal/config"
	"utc-go/internal/models"
	"utc-go/internal/repository"
	"utc-go/internal/router"
	"utc-go/internal/service"
	"utc-go/internal/utils"
	"utc-go/pkg/mailer"
	"utc-go/pkg/storage"
	"utc-go/pkg/tokenstore"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "utc-server",
		Short:         "UTC 测试用例与执行记录管理服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径（默认查找 ./config.yaml 或 ./config/config.yaml）")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移后退出",
		RunE:  runMigrate,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger 初始化日志
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("未知的日志级别 %q，使用 info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger := newLogger(cfg)

	database := models.NewDatabase(cfg.Database)
	defer database.Close()

	ctx := cmd.Context()
	if _, err := database.Connect(ctx); err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	if err := database.AutoMigrate(ctx); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.Info("数据库迁移完成")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	if cfg.JWT.UsesFallbackSecret() {
		logger.Warn("未配置 jwt.secret_key，正在使用开发用默认密钥")
	}

	// 初始化数据库
	database := models.NewDatabase(cfg.Database)
	defer database.Close()
	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	// 重置密码Token存储
	tokens, err := newTokenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// 邮件
	var sender mailer.Sender = mailer.NopSender{}
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(mailer.Config{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			From:               cfg.SMTP.From,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		})
	} else {
		logger.Info("未配置SMTP，重置密码邮件不会发送")
	}

	// 图片存储
	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化管理员账户
	authService := service.NewAuthService(repository.NewUserRepository(db), jwtManager, tokens, sender, cfg, logger)
	if err := authService.InitAdmin(ctx); err != nil {
		logger.WithError(err).Warn("初始化管理员失败")
	}

	// 设置路由
	r := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		JWT:      jwtManager,
		Tokens:   tokens,
		Mailer:   sender,
		Storage:  store,
		Registry: registry,
	})

	// 启动服务器
	addr := cfg.Server.GetAddress()
	logger.WithFields(logrus.Fields{
		"addr":       addr,
		"db":         cfg.Database.Driver,
		"upload":     cfg.Upload.Driver,
		"production": cfg.Server.ProductionMode,
	}).Info("服务器启动")

	if err := r.Run(addr); err != nil {
		return fmt.Errorf("启动服务器失败: %w", err)
	}
	return nil
}

// newTokenStore 启用Redis时使用Redis，否则使用进程内存储
func newTokenStore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (tokenstore.Store, error) {
	if !cfg.Redis.Enabled {
		logger.Info("未启用Redis，重置密码Token保存在进程内存中")
		return tokenstore.NewMemoryStore(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	store := tokenstore.NewRedisStore(redisClient, "utc:reset:")

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}
	return store, nil
}

// newStorage 根据 upload.driver 创建图片存储
func newStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Upload.Driver {
	case "s3":
		s3cfg := cfg.Upload.S3
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			PathStyle:       s3cfg.PathStyle,
			PublicBaseURL:   s3cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化S3存储失败: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
		if err != nil {
			return nil, fmt.Errorf("初始化本地存储失败: %w", err)
		}
		return store, nil
	}
}
