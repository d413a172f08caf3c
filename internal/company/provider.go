// 公司画像提供者
// sponsor → 公司分类，cache-aside 模式减少快照聚合期间的重复查库
package company

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/pkg/metrics"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "ctmis:company:"

// Classifier 公司分类接口
type Classifier interface {
	Classify(ctx context.Context, sponsor string) (model.CompanyProfile, error)
}

// ProfileSource 分类底层数据源 (仓储实现)
type ProfileSource interface {
	CompanyClassification(ctx context.Context, sponsor string) (model.CompanyProfile, error)
}

// Cache 读写缓存的最小接口
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedClassifier 带 Redis 缓存的分类器
// 缓存故障降级为直接查库，只记 Warn 不中断评分
type CachedClassifier struct {
	source ProfileSource
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier 构建缓存分类器
func NewCachedClassifier(source ProfileSource, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Classify 返回 sponsor 的公司画像
func (c *CachedClassifier) Classify(ctx context.Context, sponsor string) (model.CompanyProfile, error) {
	key := cacheKeyPrefix + strings.ToLower(strings.TrimSpace(sponsor))

	if c.cache != nil {
		raw, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			// 读失败计入独立档位，避免故障期间虚增 miss 率
			metrics.CacheHitRate.WithLabelValues("company_classify", "error").Inc()
			c.logger.Warn("Company cache read failed", zap.String("sponsor", sponsor), zap.Error(err))
		case raw != "":
			var profile model.CompanyProfile
			if err := json.Unmarshal([]byte(raw), &profile); err == nil {
				metrics.CacheHitRate.WithLabelValues("company_classify", "hit").Inc()
				return profile, nil
			}
			c.logger.Warn("Company cache entry corrupt", zap.String("key", key))
			metrics.CacheHitRate.WithLabelValues("company_classify", "miss").Inc()
		default:
			metrics.CacheHitRate.WithLabelValues("company_classify", "miss").Inc()
		}
	}

	profile, err := c.source.CompanyClassification(ctx, sponsor)
	if err != nil {
		return model.CompanyProfile{}, err
	}

	if c.cache != nil {
		payload, _ := json.Marshal(profile)
		if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil {
			c.logger.Warn("Company cache write failed", zap.String("sponsor", sponsor), zap.Error(err))
		}
	}
	return profile, nil
}
