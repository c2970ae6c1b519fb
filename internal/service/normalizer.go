package service

import (
	"context"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/tracing"
	"wiki-quiz/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuizNormalizer maps a generated quiz onto quiz, question and option rows.
type QuizNormalizer struct {
	repo      domain.QuizRepository
	txManager domain.TransactionManager
	logger    *zap.Logger
	now       func() time.Time
}

func NewQuizNormalizer(repo domain.QuizRepository, txManager domain.TransactionManager) *QuizNormalizer {
	return &QuizNormalizer{
		repo:      repo,
		txManager: txManager,
		logger:    logger.Get(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Normalize persists out under meta in a single transaction and returns the
// stored aggregate. Questions and options keep generation order.
func (n *QuizNormalizer) Normalize(ctx context.Context, meta domain.QuizMetadata, out *domain.GeneratedQuiz) (*domain.Quiz, error) {
	ctx, span := tracing.Start(ctx, "service.Normalize")
	defer span.End()

	if out == nil {
		return nil, domain.NewInvalidInputError("generated quiz is required")
	}
	for i, q := range out.Quiz {
		if len(q.Options) != domain.OptionsPerQuestion {
			err := domain.NewInvalidInputError(fmt.Sprintf("question %d has %d options, expected %d", i+1, len(q.Options), domain.OptionsPerQuestion))
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	quiz := n.build(meta, out)
	span.SetAttributes(
		attribute.String("quiz.id", quiz.ID),
		attribute.Int("quiz.questions", len(quiz.Questions)),
	)

	err := n.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := n.repo.InsertQuiz(txCtx, quiz); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		for _, q := range quiz.Questions {
			if err := n.repo.InsertQuestion(txCtx, q); err != nil {
				return fmt.Errorf("insert question %d: %w", q.Position, err)
			}
			if err := n.repo.InsertOptions(txCtx, q.Options); err != nil {
				return fmt.Errorf("insert options of question %d: %w", q.Position, err)
			}
		}
		return nil
	})
	if err != nil {
		n.logger.Error("Failed to persist quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
		tracing.RecordError(span, err)
		return nil, domain.NewPersistenceError("Failed to save quiz", err)
	}

	n.logger.Info("Quiz persisted",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
	)
	return quiz, nil
}

func (n *QuizNormalizer) build(meta domain.QuizMetadata, out *domain.GeneratedQuiz) *domain.Quiz {
	quiz := &domain.Quiz{
		ID:            util.NewULID(),
		URL:           meta.URL,
		Title:         util.Truncate(meta.Title, domain.MaxTitleLength),
		Summary:       meta.Summary,
		KeyEntities:   out.KeyEntities,
		Sections:      out.Sections,
		RelatedTopics: out.RelatedTopics,
		CreatedAt:     n.now(),
		Questions:     make([]*domain.Question, 0, len(out.Quiz)),
	}

	for i, gq := range out.Quiz {
		question := &domain.Question{
			ID:          util.NewULID(),
			QuizID:      quiz.ID,
			Position:    i,
			Text:        gq.Question,
			Answer:      gq.Answer,
			Difficulty:  gq.Difficulty,
			Explanation: gq.Explanation,
			Options:     make([]*domain.Option, 0, len(gq.Options)),
		}
		for j, text := range gq.Options {
			question.Options = append(question.Options, &domain.Option{
				ID:         util.NewULID(),
				QuestionID: question.ID,
				Position:   j,
				Text:       text,
				Label:      domain.OptionLabel(j),
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
