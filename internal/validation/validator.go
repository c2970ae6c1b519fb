package validation

import (
	"fmt"
	"net/url"
	"strings"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/util"

	"github.com/go-playground/validator/v10"
)

const (
	MaxURLsPerRequest   = 10
	MaxURLLength        = 2048
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateGenerateRequest checks the URL list of a generate request. Blank
// entries are rejected rather than skipped; duplicates are allowed.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req == nil || len(req.URLs) == 0 {
		return append(errors, domain.NewMissingFieldError("urls"))
	}
	if len(req.URLs) > MaxURLsPerRequest {
		errors = append(errors, domain.NewOutOfRangeError("urls", len(req.URLs), 1, MaxURLsPerRequest))
	}

	for i, raw := range req.URLs {
		field := fmt.Sprintf("urls[%d]", i)
		if strings.TrimSpace(raw) == "" {
			errors = append(errors, domain.NewMissingFieldError(field))
			continue
		}
		if n := len([]rune(raw)); n > MaxURLLength {
			errors = append(errors, domain.NewOutOfRangeError(field, n, 1, MaxURLLength))
			continue
		}
		if !v.isHTTPURL(raw) {
			errors = append(errors, domain.NewInvalidFormatError(field, raw))
		}
	}

	return errors
}

// ValidateQuizID validates a quiz identifier path parameter
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !util.IsValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}

	return errors
}

// ValidateHistoryRequest applies the default limit and checks paging bounds.
func (v *Validator) ValidateHistoryRequest(req *dto.HistoryRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Limit == 0 {
		req.Limit = DefaultHistoryLimit
	}
	if req.Limit < 1 || req.Limit > MaxHistoryLimit {
		errors = append(errors, domain.NewOutOfRangeError("limit", req.Limit, 1, MaxHistoryLimit))
	}
	if req.Offset < 0 {
		errors = append(errors, domain.NewOutOfRangeError("offset", req.Offset, 0, 1<<31-1))
	}

	return errors
}

func (v *Validator) isHTTPURL(raw string) bool {
	if err := v.validate.Var(raw, "required,url"); err != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
