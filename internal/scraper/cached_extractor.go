package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var errEmptyArticle = errors.New("extractor returned no article")

// CachedExtractor memoizes successful extractions in a domain.Cache and
// coalesces concurrent extractions of the same URL.
type CachedExtractor struct {
	next    domain.ArticleExtractor
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	logger  *zap.Logger
}

// NewCachedExtractor wraps next. A positive fetchTimeout bounds each shared fetch.
func NewCachedExtractor(next domain.ArticleExtractor, c domain.Cache, ttl, fetchTimeout time.Duration) *CachedExtractor {
	return &CachedExtractor{
		next:    next,
		cache:   c,
		ttl:     ttl,
		timeout: fetchTimeout,
		logger:  logger.Get(),
	}
}

// Extract serves url from the cache or joins a shared fetch. The shared fetch
// is detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (e *CachedExtractor) Extract(ctx context.Context, url string) (*domain.Article, error) {
	key := cache.ArticleKey(url)

	if article, ok := e.lookup(ctx, key); ok {
		return article, nil
	}

	ch := e.group.DoChan(url, func() (v interface{}, err error) {
		shared := context.WithoutCancel(ctx)
		if e.timeout > 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, e.timeout)
			defer cancel()
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("extractor panicked: %v", r)
			}
		}()
		article, err := e.next.Extract(shared, url)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, errEmptyArticle
		}
		e.store(shared, key, article)
		return article, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		article, ok := res.Val.(*domain.Article)
		if !ok || article == nil {
			return nil, errEmptyArticle
		}
		clone := *article
		return &clone, nil
	}
}

func (e *CachedExtractor) lookup(ctx context.Context, key string) (*domain.Article, bool) {
	raw, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			e.logger.Warn("Article cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("article", "miss").Inc()
		return nil, false
	}

	var article domain.Article
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		e.logger.Warn("Discarding corrupt article cache entry", zap.String("key", key), zap.Error(err))
		_ = e.cache.Delete(ctx, key)
		metrics.CacheLookups.WithLabelValues("article", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("article", "hit").Inc()
	return &article, true
}

func (e *CachedExtractor) store(ctx context.Context, key string, article *domain.Article) {
	data, err := json.Marshal(article)
	if err != nil {
		e.logger.Warn("Failed to encode article for cache", zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, key, string(data), e.ttl); err != nil {
		e.logger.Warn("Article cache write failed", zap.String("key", key), zap.Error(err))
	}
}
