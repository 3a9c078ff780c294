package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FallbackSecretKey 开发模式下未配置JWT密钥时使用，生产模式禁止使用
const FallbackSecretKey = "utc-dev-insecure-secret"

// LoadConfig 加载配置文件
// 环境变量使用 UTC_ 前缀，例如 UTC_JWT_SECRET_KEY 覆盖 jwt.secret_key
func LoadConfig(configFile string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// 设置配置文件路径
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认查找 config.yaml
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 读取环境变量
	v.SetEnvPrefix("UTC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	setDefaults(&cfg)

	// 验证配置
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys 让没有出现在配置文件里的键也能从环境变量读取
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port",
		"server.production_mode",
		"database.driver",
		"database.path",
		"database.dsn",
		"redis_service.enabled",
		"redis_service.host",
		"redis_service.password",
		"jwt.secret_key",
		"admin.email",
		"admin.password",
		"smtp.host",
		"smtp.port",
		"smtp.username",
		"smtp.password",
		"smtp.from",
		"upload.driver",
		"upload.s3.bucket",
		"upload.s3.access_key_id",
		"upload.s3.secret_access_key",
		"auth.public_reads",
	} {
		_ = v.BindEnv(key)
	}
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/utc.db"
	}
	if cfg.Database.ConnectTimeoutSeconds == 0 {
		cfg.Database.ConnectTimeoutSeconds = 5
	}
	if cfg.Database.IdleTimeoutSeconds == 0 {
		cfg.Database.IdleTimeoutSeconds = 45
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379 // 标准 Redis 端口
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 7 * 24 * 60 // 7天
	}
	if cfg.JWT.ResetExpireMinutes == 0 {
		cfg.JWT.ResetExpireMinutes = 60
	}
	if cfg.JWT.CookieName == "" {
		cfg.JWT.CookieName = "token"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Authorization", "Content-Type"}
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Upload.Driver == "" {
		cfg.Upload.Driver = "local"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./public/uploads"
	}
	if cfg.Upload.PublicPrefix == "" {
		cfg.Upload.PublicPrefix = "/uploads"
	}
	if cfg.Upload.MaxFileMB == 0 {
		cfg.Upload.MaxFileMB = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.SecretKey == "" {
		if cfg.Server.ProductionMode {
			return fmt.Errorf("生产模式下JWT密钥不能为空")
		}
		cfg.JWT.SecretKey = FallbackSecretKey
	}
	if cfg.Server.ProductionMode && cfg.JWT.SecretKey == FallbackSecretKey {
		return fmt.Errorf("生产模式下禁止使用默认JWT密钥")
	}

	switch cfg.Database.Driver {
	case "sqlite":
		// 检查数据库目录是否存在
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("postgres 驱动需要配置 database.dsn")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	switch cfg.Upload.Driver {
	case "local":
	case "s3":
		if cfg.Upload.S3.Bucket == "" {
			return fmt.Errorf("s3 上传驱动需要配置 upload.s3.bucket")
		}
	default:
		return fmt.Errorf("不支持的上传驱动: %s", cfg.Upload.Driver)
	}

	if cfg.Redis.Enabled && cfg.Redis.Host == "" {
		return fmt.Errorf("启用Redis时必须配置 redis_service.host")
	}

	return nil
}

// UsesFallbackSecret 是否正在使用默认JWT密钥
func (j *JWTConfig) UsesFallbackSecret() bool {
	return j.SecretKey == FallbackSecretKey
}
