package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedProvider serves repeated searches from Redis. Lookups by id are not cached here
// because imported photos are persisted locally on first fetch.
type CachedProvider struct {
	next   Provider
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProvider(next Provider, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl, logger: logger}
}

func searchKey(query string, page, perPage int) string {
	return fmt.Sprintf("unsplash:search:%s:%d:%d", strings.ToLower(strings.TrimSpace(query)), page, perPage)
}

func (p *CachedProvider) Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	key := searchKey(query, page, perPage)
	if data, err := p.cache.Get(ctx, key).Bytes(); err == nil {
		var out SearchResult
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			return &out, nil
		}
	} else if err != redis.Nil {
		p.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}

	res, err := p.next.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(res); err == nil {
		if err := p.cache.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			p.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

func (p *CachedProvider) FetchByID(ctx context.Context, id string) (*Photo, error) {
	return p.next.FetchByID(ctx, id)
}
