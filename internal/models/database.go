package models

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"utc-go/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database 数据库连接句柄
// 由 main 显式创建并注入各 Repository；Connect 幂等，首次成功后缓存连接
type Database struct {
	cfg config.DatabaseConfig

	mu sync.Mutex
	db *gorm.DB
}

// NewDatabase 创建数据库句柄（不立即连接）
func NewDatabase(cfg config.DatabaseConfig) *Database {
	return &Database{cfg: cfg}
}

// Connect 建立连接；已有缓存连接时直接返回
func (d *Database) Connect(ctx context.Context) (*gorm.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return d.db, nil
	}

	dialector, err := openDialector(d.cfg)
	if err != nil {
		return nil, err
	}

	// 配置GORM
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent), // 使用静默模式
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		DisableAutomaticPing:                     true,
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %w", err)
	}
	sqlDB.SetConnMaxIdleTime(d.cfg.GetIdleTimeout())
	if d.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(d.cfg.MaxOpenConns)
	}

	pingCtx := ctx
	if timeout := d.cfg.GetConnectTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	d.db = db
	return d.db, nil
}

// DB 返回已缓存的连接，未连接时为 nil
func (d *Database) DB() *gorm.DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db
}

// AutoMigrate 自动迁移数据库表
func (d *Database) AutoMigrate(ctx context.Context) error {
	db, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).AutoMigrate(
		&User{},
		&Task{},
		&Tag{},
		&TestExecution{},
	)
}

// Close 关闭连接，之后再次 Connect 会重新建立
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	d.db = nil
	return sqlDB.Close()
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	timeoutSeconds := cfg.ConnectTimeoutSeconds
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.Path
		if !strings.Contains(dsn, "?") {
			dsn = fmt.Sprintf("%s?_busy_timeout=%d", dsn, timeoutSeconds*1000)
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		dsn := cfg.DSN
		if timeoutSeconds > 0 && !strings.Contains(dsn, "connect_timeout") {
			switch {
			case strings.Contains(dsn, "://") && strings.Contains(dsn, "?"):
				dsn = fmt.Sprintf("%s&connect_timeout=%d", dsn, timeoutSeconds)
			case strings.Contains(dsn, "://"):
				dsn = fmt.Sprintf("%s?connect_timeout=%d", dsn, timeoutSeconds)
			default:
				dsn = fmt.Sprintf("%s connect_timeout=%d", dsn, timeoutSeconds)
			}
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}
