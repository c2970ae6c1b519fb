package app

import (
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/metrics"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewServer builds the fiber application serving the quiz API.
func NewServer(cfg *config.Config, quizService service.QuizService, checks map[string]handler.Pinger) *fiber.App {
	server := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	server.Use(recover.New())
	server.Use(middleware.RequestLogger())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	if cfg.Tracing.Enabled {
		server.Use(middleware.Tracing())
	}
	if cfg.Metrics.Enabled {
		server.Use(middleware.Metrics())
		server.Get(cfg.Metrics.Path, adaptor.HTTPHandler(metrics.Handler()))
	}

	server.Get("/health", handler.NewHealthHandler(checks).Health)
	server.Get("/swagger/*", swagger.HandlerDefault)

	api := server.Group("/api")
	handler.RegisterRoutes(api, handler.NewQuizHandler(quizService), middleware.NewValidationMiddleware())

	return server
}
