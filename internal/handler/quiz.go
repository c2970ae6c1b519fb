package handler

import (
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// RegisterRoutes mounts the quiz endpoints on router.
func RegisterRoutes(router fiber.Router, h *QuizHandler, vm *middleware.ValidationMiddleware) {
	router.Post("/generate", vm.ValidateGenerateRequest(), h.GenerateQuiz)
	router.Get("/history", vm.ValidateHistoryParams(), h.GetHistory)
	router.Get("/quiz/:id", vm.ValidateQuizID(), h.GetQuiz)
}

// GenerateQuiz godoc
// @Summary Generate a quiz from source documents
// @Description Fetches every URL, merges the readable text and generates a multiple-choice quiz from it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Source URLs"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req := c.Locals(middleware.LocalGenerateRequest).(*dto.GenerateQuizRequest)

	resp, err := h.service.GenerateQuiz(c.UserContext(), req)
	if err != nil {
		logger.Get().Error("Failed to generate quiz",
			zap.Error(err),
			zap.Strings("urls", req.URLs),
		)
		return err
	}

	return c.JSON(resp)
}

// GetHistory godoc
// @Summary List generated quizzes
// @Description Returns stored quizzes, newest first
// @Tags quiz
// @Produce json
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} dto.HistoryItem
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /history [get]
func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	req := c.Locals(middleware.LocalHistoryRequest).(*dto.HistoryRequest)

	items, err := h.service.ListHistory(c.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// GetQuiz godoc
// @Summary Get a quiz by id
// @Description Returns a stored quiz in the same shape it was generated in
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Locals(middleware.LocalQuizID).(string)

	resp, err := h.service.GetQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
