package middleware

import (
	"strconv"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalGenerateRequest = "validated_generate_request"
	LocalHistoryRequest  = "validated_history_request"
	LocalQuizID          = "validated_quiz_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerateRequest parses and validates the POST /api/generate body.
func (vm *ValidationMiddleware) ValidateGenerateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("request body must be JSON of the form {\"urls\": [...]}")
		}

		if errors := vm.validator.ValidateGenerateRequest(&req); len(errors) > 0 {
			return errors
		}

		c.Locals(LocalGenerateRequest, &req)
		return c.Next()
	}
}

// ValidateQuizID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateQuizID(id); len(errors) > 0 {
			return errors
		}

		c.Locals(LocalQuizID, id)
		return c.Next()
	}
}

// ValidateHistoryParams validates limit and offset query parameters
func (vm *ValidationMiddleware) ValidateHistoryParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.HistoryRequest
		var errors domain.ValidationErrors

		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errors = append(errors, domain.NewInvalidFormatError("limit", raw))
			}
			req.Limit = n
			if err == nil && n == 0 {
				errors = append(errors, domain.NewOutOfRangeError("limit", n, 1, validation.MaxHistoryLimit))
			}
		}
		if raw := c.Query("offset"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errors = append(errors, domain.NewInvalidFormatError("offset", raw))
			}
			req.Offset = n
		}
		if len(errors) > 0 {
			return errors
		}

		if errors := vm.validator.ValidateHistoryRequest(&req); len(errors) > 0 {
			return errors
		}

		c.Locals(LocalHistoryRequest, &req)
		return c.Next()
	}
}
