package service

import (
	"context"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	ListHistory(ctx context.Context, limit, offset int) ([]dto.HistoryItem, error)
}

// quizService implements QuizService
type quizService struct {
	fetcher      domain.ArticleFetcher
	generator    domain.QuizGenerator
	normalizer   *QuizNormalizer
	denormalizer *QuizDenormalizer
	logger       *zap.Logger
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	fetcher domain.ArticleFetcher,
	generator domain.QuizGenerator,
	normalizer *QuizNormalizer,
	denormalizer *QuizDenormalizer,
) QuizService {
	return &quizService{
		fetcher:      fetcher,
		generator:    generator,
		normalizer:   normalizer,
		denormalizer: denormalizer,
		logger:       logger.Get(),
	}
}

// GenerateQuiz runs fetch, generate and normalize for req.URLs. A stage that
// fails stops the pipeline; nothing is stored unless generation succeeded.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	ctx, span := tracing.Start(ctx, "service.GenerateQuiz")
	defer span.End()
	span.SetAttributes(attribute.Int("quiz.urls", len(req.URLs)))

	article, err := s.fetcher.Fetch(ctx, req.URLs)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	s.logger.Info("Source documents extracted",
		zap.Strings("attempted", article.URLs),
		zap.Strings("succeeded", article.SucceededURLs),
		zap.Int("body_chars", len(article.Body)),
	)

	generated, err := s.generator.Generate(ctx, article.Body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	meta := domain.QuizMetadata{
		URL:     domain.JoinURLs(article.URLs),
		Title:   article.Title,
		Summary: article.Summary,
	}
	quiz, err := s.normalizer.Normalize(ctx, meta, generated)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	resp := s.denormalizer.ToResponse(quiz)
	s.denormalizer.Warm(ctx, resp)
	return resp, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	return s.denormalizer.Get(ctx, id)
}

func (s *quizService) ListHistory(ctx context.Context, limit, offset int) ([]dto.HistoryItem, error) {
	return s.denormalizer.History(ctx, limit, offset)
}
