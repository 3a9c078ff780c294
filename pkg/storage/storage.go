// Package storage 保存上传的截图并返回可公开访问的地址
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Driver 存储驱动
type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
)

// PutOptions 写入选项
type PutOptions struct {
	ContentType string
	Size        int64
}

// Store 文件存储接口
type Store interface {
	Driver() Driver
	// Put 写入对象并返回公开URI
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore 写入服务器本地公开目录
type LocalStore struct {
	root         string
	publicPrefix string
}

// NewLocalStore 创建本地存储，目录不存在时创建
func NewLocalStore(root, publicPrefix string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("本地存储目录不能为空")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{root: root, publicPrefix: strings.TrimRight(publicPrefix, "/")}, nil
}

// Driver 返回驱动类型
func (s *LocalStore) Driver() Driver { return DriverLocal }

// Root 本地根目录
func (s *LocalStore) Root() string { return s.root }

// Put 写入文件
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (string, error) {
	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("关闭文件失败: %w", err)
	}

	return s.publicPrefix + "/" + path.Clean(key), nil
}

// Delete 删除文件，不存在时忽略
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("非法的文件名: %s", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
