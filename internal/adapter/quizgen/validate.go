package quizgen

import (
	"errors"
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(answerMatchesOneOption, domain.GeneratedQuestion{})
	return v
}

// answerMatchesOneOption requires the answer to equal exactly one option text.
func answerMatchesOneOption(sl validator.StructLevel) {
	q := sl.Current().Interface().(domain.GeneratedQuestion)
	if q.Answer == "" {
		return
	}
	matches := 0
	for _, o := range q.Options {
		if o == q.Answer {
			matches++
		}
	}
	if matches != 1 {
		sl.ReportError(q.Answer, "Answer", "answer", "oneoption", fmt.Sprintf("%d", matches))
	}
}

// describeValidationError flattens validator errors into one readable message.
func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "GeneratedQuiz.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed '%s=%s'", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed '%s'", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
