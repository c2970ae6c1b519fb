package domain

import "context"

// Article is the readable content extracted from one source document.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// CombinedArticle merges every successfully extracted article of a batch.
type CombinedArticle struct {
	Title   string
	Summary string
	Body    string
	// URLs holds every unique URL that was attempted, in input order.
	URLs []string
	// SucceededURLs is the subset of URLs whose extraction succeeded.
	SucceededURLs []string
}

// ArticleExtractor fetches and extracts a single document.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*Article, error)
}

// ArticleFetcher fetches a batch of documents and merges the ones that succeed.
type ArticleFetcher interface {
	Fetch(ctx context.Context, urls []string) (*CombinedArticle, error)
}
