package app

import (
	"context"
	"fmt"
	"net/http"

	"wiki-quiz/internal/adapter"
	"wiki-quiz/internal/adapter/quizgen"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"
	"wiki-quiz/internal/repository"
	"wiki-quiz/internal/scraper"
	"wiki-quiz/internal/service"
	"wiki-quiz/internal/tracing"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// App holds the long-lived dependencies shared by the API server and the CLI.
type App struct {
	Config      *config.Config
	DB          *sqlx.DB
	Redis       *redis.Client
	QuizService service.QuizService

	tracerProvider *sdktrace.TracerProvider
}

// New connects to every backing service and wires the quiz pipeline.
// Redis is optional; when disabled the pipeline runs without caches.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()
	a := &App{Config: cfg}

	if cfg.Metrics.Enabled {
		metrics.Init()
	}
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		a.tracerProvider = tp
		log.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	db, err := database.Connect(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.DB = db

	var appCache domain.Cache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Redis = client
		appCache = adapter.NewRedisCacheAdapter(client)
		log.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	}

	llm, err := quizgen.NewLLM(ctx, cfg.LLM)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	log.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	a.QuizService = NewQuizService(cfg, db, appCache, quizgen.NewLangChainQuizGenerator(llm, cfg.LLM))
	return a, nil
}

// NewQuizService assembles the pipeline from already opened resources.
// appCache may be nil.
func NewQuizService(cfg *config.Config, db *sqlx.DB, appCache domain.Cache, generator domain.QuizGenerator) service.QuizService {
	repo := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	var extractor domain.ArticleExtractor = scraper.NewHTTPExtractor(
		&http.Client{Timeout: cfg.Scraper.Timeout},
		cfg.Scraper.UserAgent,
	)
	if appCache != nil {
		extractor = scraper.NewCachedExtractor(extractor, appCache, cfg.Cache.ArticleTTL, cfg.Scraper.Timeout)
	}

	return service.NewQuizService(
		scraper.NewFetchCoordinator(extractor, cfg.Scraper.Workers),
		generator,
		service.NewQuizNormalizer(repo, txManager),
		service.NewQuizDenormalizer(repo, appCache, cfg.Cache.QuizTTL),
	)
}

// HealthChecks lists the backing services /health reports on.
func (a *App) HealthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if a.DB != nil {
		checks["database"] = handler.PingerFunc(a.DB.PingContext)
	}
	if a.Redis != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		})
	}
	return checks
}

// Close releases every resource New opened.
func (a *App) Close(ctx context.Context) {
	log := logger.Get()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			log.Warn("Failed to flush traces", zap.Error(err))
		}
	}
}
