package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis_service"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Frontend FrontendConfig `mapstructure:"frontend"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver                string `mapstructure:"driver"` // sqlite, postgres
	Path                  string `mapstructure:"path"`
	DSN                   string `mapstructure:"dsn"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
	IdleTimeoutSeconds    int    `mapstructure:"idle_timeout_seconds"`
	MaxOpenConns          int    `mapstructure:"max_open_conns"`
	AutoMigrate           bool   `mapstructure:"auto_migrate"`
}

// GetConnectTimeout 获取连接超时
func (d *DatabaseConfig) GetConnectTimeout() time.Duration {
	return time.Duration(d.ConnectTimeoutSeconds) * time.Second
}

// GetIdleTimeout 获取空闲连接超时
func (d *DatabaseConfig) GetIdleTimeout() time.Duration {
	return time.Duration(d.IdleTimeoutSeconds) * time.Second
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey          string `mapstructure:"secret_key"`
	Algorithm          string `mapstructure:"algorithm"`
	ExpireMinutes      int    `mapstructure:"expire_minutes"`
	ResetExpireMinutes int    `mapstructure:"reset_expire_minutes"`
	CookieName         string `mapstructure:"cookie_name"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// GetResetExpireDuration 获取重置密码Token过期时间
func (j *JWTConfig) GetResetExpireDuration() time.Duration {
	return time.Duration(j.ResetExpireMinutes) * time.Minute
}

// AdminConfig 管理员配置
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// FrontendConfig 前端配置
type FrontendConfig struct {
	URL string `mapstructure:"url"`
}

// SMTPConfig 邮件配置
type SMTPConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	From               string `mapstructure:"from"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// Enabled SMTP是否已配置
func (s *SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// UploadConfig 上传配置
type UploadConfig struct {
	Driver       string   `mapstructure:"driver"` // local, s3
	Dir          string   `mapstructure:"dir"`
	PublicPrefix string   `mapstructure:"public_prefix"`
	MaxFileMB    int      `mapstructure:"max_file_mb"`
	S3           S3Config `mapstructure:"s3"`
}

// GetMaxFileBytes 获取单文件大小上限
func (u *UploadConfig) GetMaxFileBytes() int64 {
	return int64(u.MaxFileMB) << 20
}

// S3Config S3存储配置
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PathStyle       bool   `mapstructure:"path_style"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// AuthConfig 访问控制配置
type AuthConfig struct {
	// PublicReads 为 true 时任务、执行记录、仪表盘的读接口不要求登录
	PublicReads bool `mapstructure:"public_reads"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}
