package quizgen

import (
	"context"
	"fmt"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"
	"wiki-quiz/internal/tracing"
	"wiki-quiz/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxInputChars caps the text handed to the model.
const DefaultMaxInputChars = 30000

// LangChainQuizGenerator implements domain.QuizGenerator on top of any
// langchaingo model.
type LangChainQuizGenerator struct {
	llm           llms.Model
	prompt        prompts.PromptTemplate
	validate      *validator.Validate
	temperature   float64
	maxInputChars int
	timeout       time.Duration
	logger        *zap.Logger
}

func NewLangChainQuizGenerator(llm llms.Model, cfg config.LLMConfig) *LangChainQuizGenerator {
	maxChars := cfg.MaxInputChars
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	return &LangChainQuizGenerator{
		llm:           llm,
		prompt:        newQuizPrompt(),
		validate:      newValidator(),
		temperature:   cfg.Temperature,
		maxInputChars: maxChars,
		timeout:       cfg.Timeout,
		logger:        logger.Get(),
	}
}

// Generate asks the model for a quiz about text. A failed model call is an
// LLM_SERVICE_ERROR; a reply that does not parse or validate is a
// GENERATION_FAILED. Nothing is retried.
func (g *LangChainQuizGenerator) Generate(ctx context.Context, text string) (*domain.GeneratedQuiz, error) {
	ctx, span := tracing.Start(ctx, "quizgen.Generate")
	defer span.End()

	input := util.Truncate(text, g.maxInputChars)
	span.SetAttributes(attribute.Int("quizgen.input_chars", len([]rune(input))))

	prompt, err := g.prompt.Format(map[string]any{"text": input})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, domain.NewInternalError("failed to render quiz prompt", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithJSONMode(),
	)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("service_error").Inc()
		g.logger.Error("LLM call failed", zap.Error(err))
		tracing.RecordError(span, err)
		return nil, domain.NewLLMServiceError(err)
	}

	quiz, err := parseGeneratedQuiz(response)
	if err != nil {
		return nil, g.invalidResponse(span, response, err)
	}
	if err := g.validate.Struct(quiz); err != nil {
		return nil, g.invalidResponse(span, response, fmt.Errorf("model response failed validation: %s", describeValidationError(err)))
	}

	metrics.GenerationTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("quizgen.questions", len(quiz.Quiz)))
	g.logger.Info("Quiz generated",
		zap.Int("questions", len(quiz.Quiz)),
		zap.Int("related_topics", len(quiz.RelatedTopics)),
	)
	return quiz, nil
}

func (g *LangChainQuizGenerator) invalidResponse(span trace.Span, response string, err error) error {
	metrics.GenerationTotal.WithLabelValues("invalid_response").Inc()
	g.logger.Warn("Rejected model response",
		zap.Error(err),
		zap.String("response", util.Abbreviate(response, 500)),
	)
	tracing.RecordError(span, err)
	return domain.NewGenerationFailedError(err)
}
