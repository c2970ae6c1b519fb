package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"
	"wiki-quiz/internal/tracing"
	"wiki-quiz/internal/util"

	"go.uber.org/zap"
)

// historySummaryLength is the number of summary characters shown per history row.
const historySummaryLength = 100

// QuizDenormalizer rebuilds the nested quiz shape from stored rows.
type QuizDenormalizer struct {
	repo     domain.QuizRepository
	cache    domain.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewQuizDenormalizer creates a denormalizer. quizCache may be nil, in which
// case every read goes to the store.
func NewQuizDenormalizer(repo domain.QuizRepository, quizCache domain.Cache, cacheTTL time.Duration) *QuizDenormalizer {
	return &QuizDenormalizer{
		repo:     repo,
		cache:    quizCache,
		cacheTTL: cacheTTL,
		logger:   logger.Get(),
	}
}

// Load reads a quiz with its questions and options in stored order.
func (d *QuizDenormalizer) Load(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := d.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}

	questions, err := d.repo.GetQuestionsByQuizID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz questions", err)
	}
	options, err := d.repo.GetOptionsByQuizID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz options", err)
	}

	byQuestion := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		q.Options = make([]*domain.Option, 0, domain.OptionsPerQuestion)
		byQuestion[q.ID] = q
	}
	for _, o := range options {
		q, ok := byQuestion[o.QuestionID]
		if !ok {
			d.logger.Warn("Option without question", zap.String("quiz_id", id), zap.String("option_id", o.ID))
			continue
		}
		q.Options = append(q.Options, o)
	}

	quiz.Questions = questions
	return quiz, nil
}

// ToResponse renders quiz in the external response shape. Option labels are
// not part of it.
func (d *QuizDenormalizer) ToResponse(quiz *domain.Quiz) *dto.QuizResponse {
	resp := &dto.QuizResponse{
		ID:            quiz.ID,
		URL:           quiz.URL,
		Title:         quiz.Title,
		Summary:       quiz.Summary,
		KeyEntities:   quiz.KeyEntities,
		Sections:      quiz.Sections,
		RelatedTopics: quiz.RelatedTopics,
		CreatedAt:     quiz.CreatedAt,
		Quiz:          make([]dto.QuestionResponse, 0, len(quiz.Questions)),
	}
	if resp.KeyEntities == nil {
		resp.KeyEntities = map[string][]string{}
	}
	if resp.Sections == nil {
		resp.Sections = []string{}
	}
	if resp.RelatedTopics == nil {
		resp.RelatedTopics = []string{}
	}

	for _, q := range quiz.Questions {
		resp.Quiz = append(resp.Quiz, dto.QuestionResponse{
			Question:    q.Text,
			Options:     q.OptionTexts(),
			Answer:      q.Answer,
			Difficulty:  string(q.Difficulty),
			Explanation: q.Explanation,
		})
	}
	return resp
}

// Get returns the response for id, served from the cache when possible.
// Stored quizzes never change, so a cached entry is only dropped by its TTL.
func (d *QuizDenormalizer) Get(ctx context.Context, id string) (*dto.QuizResponse, error) {
	ctx, span := tracing.Start(ctx, "service.GetQuiz")
	defer span.End()

	key := cache.QuizDetailKey(id)
	if cached := d.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	quiz, err := d.Load(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	resp := d.ToResponse(quiz)
	d.store(ctx, key, resp)
	return resp, nil
}

// History lists stored quizzes, newest first.
func (d *QuizDenormalizer) History(ctx context.Context, limit, offset int) ([]dto.HistoryItem, error) {
	rows, err := d.repo.ListQuizzes(ctx, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	items := make([]dto.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.HistoryItem{
			ID:        r.ID,
			URL:       r.URL,
			Title:     r.Title,
			Summary:   util.Abbreviate(r.Summary, historySummaryLength),
			CreatedAt: r.CreatedAt,
		})
	}
	return items, nil
}

// Warm stores a freshly generated response so the first read is a hit.
func (d *QuizDenormalizer) Warm(ctx context.Context, resp *dto.QuizResponse) {
	d.store(ctx, cache.QuizDetailKey(resp.ID), resp)
}

func (d *QuizDenormalizer) fromCache(ctx context.Context, key string) *dto.QuizResponse {
	if d.cache == nil {
		return nil
	}
	raw, err := d.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.CacheLookups.WithLabelValues("quiz", "miss").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("quiz", "error").Inc()
			d.logger.Warn("Quiz cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var resp dto.QuizResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		metrics.CacheLookups.WithLabelValues("quiz", "error").Inc()
		d.logger.Warn("Discarding undecodable cached quiz", zap.String("key", key), zap.Error(err))
		_ = d.cache.Delete(ctx, key)
		return nil
	}
	metrics.CacheLookups.WithLabelValues("quiz", "hit").Inc()
	return &resp
}

func (d *QuizDenormalizer) store(ctx context.Context, key string, resp *dto.QuizResponse) {
	if d.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		d.logger.Warn("Failed to encode quiz for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := d.cache.Set(ctx, key, string(data), d.cacheTTL); err != nil {
		d.logger.Warn("Quiz cache write failed", zap.String("key", key), zap.Error(err))
	}
}
