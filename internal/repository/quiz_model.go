package repository

import (
	"database/sql"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:            q.ID,
		URL:           q.URL,
		Title:         q.Title,
		Summary:       nullString(q.Summary),
		KeyEntities:   models.JSONEntityMap(q.KeyEntities),
		Sections:      models.JSONStringSlice(q.Sections),
		RelatedTopics: models.JSONStringSlice(q.RelatedTopics),
		CreatedAt:     q.CreatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	q := &domain.Quiz{
		ID:            m.ID,
		URL:           m.URL,
		Title:         m.Title,
		Summary:       m.Summary.String,
		KeyEntities:   map[string][]string(m.KeyEntities),
		Sections:      []string(m.Sections),
		RelatedTopics: []string(m.RelatedTopics),
		CreatedAt:     m.CreatedAt,
	}
	if q.KeyEntities == nil {
		q.KeyEntities = map[string][]string{}
	}
	if q.Sections == nil {
		q.Sections = []string{}
	}
	if q.RelatedTopics == nil {
		q.RelatedTopics = []string{}
	}
	return q
}

func toModelQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:           q.ID,
		QuizID:       q.QuizID,
		Position:     q.Position,
		QuestionText: q.Text,
		Answer:       q.Answer,
		Difficulty:   string(q.Difficulty),
		Explanation:  nullString(q.Explanation),
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:          m.ID,
		QuizID:      m.QuizID,
		Position:    m.Position,
		Text:        m.QuestionText,
		Answer:      m.Answer,
		Difficulty:  domain.Difficulty(m.Difficulty),
		Explanation: m.Explanation.String,
	}
}

func toModelOption(o *domain.Option) *models.Option {
	return &models.Option{
		ID:         o.ID,
		QuestionID: o.QuestionID,
		Position:   o.Position,
		OptionText: o.Text,
		Label:      o.Label,
	}
}

func toDomainOption(m *models.Option) *domain.Option {
	return &domain.Option{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Position:   m.Position,
		Text:       m.OptionText,
		Label:      m.Label,
	}
}
