package tokenstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// consumeScript 使用Lua脚本确保读取与删除的原子性
// 兼容不支持 GETDEL 的旧版 Redis
var consumeScript = redis.NewScript(
	`local value = redis.call('GET', KEYS[1])
	if value == false then
		return false
	end
	redis.call('DEL', KEYS[1])
	return value`,
)

// RedisStore 基于Redis的一次性Token存储
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore 创建基于Redis的存储
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Save 记录Token，过期时间由Redis维护
func (s *RedisStore) Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+tokenID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("写入Token失败: %w", err)
	}
	return nil
}

// Consume 取出并删除Token
func (s *RedisStore) Consume(ctx context.Context, tokenID string) (uint, bool, error) {
	result, err := consumeScript.Run(ctx, s.client, []string{s.keyPrefix + tokenID}).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	raw, ok := result.(string)
	if !ok {
		return 0, false, fmt.Errorf("Token值类型异常: %T", result)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("解析Token值失败: %w", err)
	}
	return uint(userID), true, nil
}

// Ping 检查Redis连接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
