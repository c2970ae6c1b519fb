package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"
)

// cleanJSONResponse strips reasoning blocks and markdown fences and returns the
// outermost JSON object in raw.
func cleanJSONResponse(raw string) (string, error) {
	s := raw
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s, "</think>")
		if end == -1 || end < start {
			s = s[:start]
			break
		}
		s = s[:start] + s[end+len("</think>"):]
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	jsonStart := strings.Index(s, "{")
	jsonEnd := strings.LastIndex(s, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return "", fmt.Errorf("no JSON object found in model response")
	}
	return s[jsonStart : jsonEnd+1], nil
}

// parseGeneratedQuiz decodes a model response and normalizes it for validation.
// Missing collections are left nil so validation can reject them.
func parseGeneratedQuiz(raw string) (*domain.GeneratedQuiz, error) {
	cleaned, err := cleanJSONResponse(raw)
	if err != nil {
		return nil, err
	}

	var out domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	normalize(&out)
	return &out, nil
}

func normalize(q *domain.GeneratedQuiz) {
	trimAll(q.Sections)
	trimAll(q.RelatedTopics)
	for i := range q.Quiz {
		item := &q.Quiz[i]
		item.Question = strings.TrimSpace(item.Question)
		item.Answer = strings.TrimSpace(item.Answer)
		item.Explanation = strings.TrimSpace(item.Explanation)
		item.Difficulty = domain.ParseDifficulty(string(item.Difficulty))
		trimAll(item.Options)
		item.Answer = resolveLetterAnswer(item.Answer, item.Options)
	}
}

func trimAll(items []string) {
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
}

// resolveLetterAnswer maps an answer given as a bare option letter ("B") to
// that option's text when no option literally equals the answer.
func resolveLetterAnswer(answer string, options []string) string {
	for _, o := range options {
		if o == answer {
			return answer
		}
	}
	if len(answer) == 1 {
		idx := int(strings.ToUpper(answer)[0] - 'A')
		if idx >= 0 && idx < len(options) {
			return options[idx]
		}
	}
	return answer
}
