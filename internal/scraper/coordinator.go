package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the maximum number of concurrent fetches per batch.
const DefaultWorkers = 5

// FetchCoordinator extracts a batch of URLs on a bounded worker pool and
// merges whatever succeeded into one combined article.
type FetchCoordinator struct {
	extractor domain.ArticleExtractor
	workers   int
	logger    *zap.Logger
}

func NewFetchCoordinator(extractor domain.ArticleExtractor, workers int) *FetchCoordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &FetchCoordinator{
		extractor: extractor,
		workers:   workers,
		logger:    logger.Get(),
	}
}

// Fetch implements domain.ArticleFetcher. Individual failures are dropped;
// only a batch where nothing could be extracted is an error.
func (c *FetchCoordinator) Fetch(ctx context.Context, urls []string) (*domain.CombinedArticle, error) {
	unique := Dedupe(urls)
	if len(unique) == 0 {
		return nil, domain.NewInvalidInputError("at least one URL is required")
	}

	results := make([]*domain.Article, len(unique))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, u := range unique {
		g.Go(func() error {
			results[i] = c.extractOne(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	var succeeded []*domain.Article
	for _, a := range results {
		if a != nil {
			succeeded = append(succeeded, a)
		}
	}

	if len(succeeded) == 0 {
		c.logger.Error("No documents could be extracted", zap.Strings("urls", unique))
		return nil, domain.NewContentUnavailableError(unique)
	}
	if dropped := len(unique) - len(succeeded); dropped > 0 {
		c.logger.Warn("Some documents were dropped from the batch",
			zap.Int("attempted", len(unique)),
			zap.Int("dropped", dropped),
		)
	}

	combined := Merge(succeeded)
	combined.URLs = unique
	return combined, nil
}

// extractOne runs one extraction and converts errors and panics into a nil result.
func (c *FetchCoordinator) extractOne(ctx context.Context, url string) (article *domain.Article) {
	start := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			c.logger.Error("Extractor panicked", zap.String("url", url), zap.Any("panic", r))
			article = nil
		}
		if article == nil {
			metrics.FetchTotal.WithLabelValues("failure").Inc()
		} else {
			metrics.FetchTotal.WithLabelValues("success").Inc()
		}
	}()

	a, err := c.extractor.Extract(ctx, url)
	if err != nil {
		c.logger.Debug("Dropping URL", zap.String("url", url), zap.Error(err))
		return nil
	}
	if a != nil && a.URL == "" {
		a.URL = url
	}
	return a
}

// Dedupe removes exact duplicates, keeping the first occurrence of each URL.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Merge combines articles in the order given.
func Merge(articles []*domain.Article) *domain.CombinedArticle {
	titles := make([]string, 0, len(articles))
	summaries := make([]string, 0, len(articles))
	bodies := make([]string, 0, len(articles))
	succeeded := make([]string, 0, len(articles))

	for _, a := range articles {
		titles = append(titles, a.Title)
		summaries = append(summaries, fmt.Sprintf("**%s**: %s", a.Title, a.Summary))
		bodies = append(bodies, fmt.Sprintf("--- ARTICLE: %s ---\n%s", a.Title, a.Body))
		succeeded = append(succeeded, a.URL)
	}

	return &domain.CombinedArticle{
		Title:         strings.Join(titles, " & "),
		Summary:       strings.Join(summaries, "\n\n"),
		Body:          strings.Join(bodies, "\n\n"),
		SucceededURLs: succeeded,
	}
}
