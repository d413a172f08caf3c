// Redis 缓存实现
// 公司画像缓存与运行互斥锁共用同一客户端
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ctmis-ai/ctmis/pkg/config"
	"github.com/go-redis/redis/v8"
)

// RunLockKey 周度更新运行锁键
// 持锁者写入本次运行标识，保证同一数据集至多一个写入者
const RunLockKey = "ctmis:update:lock"

// RedisCache Redis 缓存客户端
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建 Redis 缓存客户端
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get 获取缓存，键不存在时返回空串
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	result, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return result, err
}

// Set 设置缓存
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete 删除缓存
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Exists 检查键是否存在
func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	return result > 0, err
}

// AcquireRunLock 获取运行锁 (SETNX)
// 返回 false 表示已有运行在进行中
func (r *RedisCache) AcquireRunLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, RunLockKey, owner, ttl).Result()
}

// ReleaseRunLock 释放运行锁
func (r *RedisCache) ReleaseRunLock(ctx context.Context) error {
	return r.client.Del(ctx, RunLockKey).Err()
}

// Close 关闭连接
func (r *RedisCache) Close() error {
	return r.client.Close()
}
