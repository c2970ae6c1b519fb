package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// UnknownTitle is used when a document has no h1 heading.
	UnknownTitle = "Unknown Title"

	// summaryMinLength is the exclusive lower bound, in characters, for a summary paragraph.
	summaryMinLength = 50

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 10 << 20
)

// HTTPExtractor fetches a document over HTTP and extracts its readable text.
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPExtractor builds an extractor. A nil client falls back to http.DefaultClient.
func NewHTTPExtractor(client *http.Client, userAgent string) *HTTPExtractor {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPExtractor{
		client:    client,
		userAgent: userAgent,
		logger:    logger.Get(),
	}
}

// Extract implements domain.ArticleExtractor. Every failure is logged here and
// returned so the caller can drop the source.
func (e *HTTPExtractor) Extract(ctx context.Context, rawURL string) (*domain.Article, error) {
	article, err := e.extract(ctx, rawURL)
	if err != nil {
		e.logger.Warn("Failed to extract document", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	e.logger.Debug("Extracted document",
		zap.String("url", rawURL),
		zap.String("title", article.Title),
		zap.Int("body_chars", utf8.RuneCountInString(article.Body)),
	)
	return article, nil
}

func (e *HTTPExtractor) extract(ctx context.Context, rawURL string) (*domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	article, err := ParseArticle(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	article.URL = rawURL
	return article, nil
}

// ParseArticle extracts title, summary and body from an HTML document.
func ParseArticle(r io.Reader) (*domain.Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	article := &domain.Article{Title: extractTitle(doc)}

	var (
		paragraphs []string
		summary    string
	)
	for _, p := range findAll(contentRegion(doc), isElement(atom.P)) {
		text := strings.TrimSpace(textContent(p))
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, text)
		if summary == "" && utf8.RuneCountInString(text) > summaryMinLength {
			summary = text
		}
	}

	article.Summary = StripCitations(summary)
	article.Body = StripCitations(strings.Join(paragraphs, "\n\n"))
	return article, nil
}

func extractTitle(doc *html.Node) string {
	isH1 := isElement(atom.H1)
	h1 := findFirst(doc, func(n *html.Node) bool {
		return isH1(n) && hasClass(n, "firstHeading")
	})
	if h1 == nil {
		h1 = findFirst(doc, isH1)
	}
	if h1 == nil {
		return UnknownTitle
	}
	title := strings.Join(strings.Fields(textContent(h1)), " ")
	if title == "" {
		return UnknownTitle
	}
	return title
}

// contentRegion prefers the MediaWiki content container and falls back to
// main, article and finally body for other sites.
func contentRegion(doc *html.Node) *html.Node {
	candidates := []func(*html.Node) bool{
		hasID("mw-content-text"),
		isElement(atom.Main),
		isElement(atom.Article),
		isElement(atom.Body),
	}
	for _, match := range candidates {
		if n := findFirst(doc, match); n != nil {
			return n
		}
	}
	return doc
}
