// Package tokenstore 记录一次性Token（如重置密码Token的 jti），保证只能被消费一次
package tokenstore

import (
	"context"
	"sync"
	"time"
)

// Store 一次性Token存储
type Store interface {
	// Save 记录 token 对应的用户，ttl 到期后自动失效
	Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	// Consume 原子地取出并删除；不存在或已过期时 ok 为 false
	Consume(ctx context.Context, tokenID string) (userID uint, ok bool, err error)
}

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore 进程内实现，未启用Redis时使用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore 创建进程内存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save 记录Token
func (s *MemoryStore) Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[tokenID] = memoryEntry{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

// Consume 取出并删除Token
func (s *MemoryStore) Consume(ctx context.Context, tokenID string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[tokenID]
	if !ok {
		return 0, false, nil
	}
	delete(s.entries, tokenID)
	if !s.now().Before(e.expiresAt) {
		return 0, false, nil
	}
	return e.userID, true, nil
}
