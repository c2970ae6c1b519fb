package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// Column aliases are quoted so Oracle returns lower-case names that match the db tags.
const (
	insertQuizQuery = `INSERT INTO quizzes (
		id, url, title, summary, key_entities, sections, related_topics, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertQuestionQuery = `INSERT INTO quiz_questions (
		id, quiz_id, seq_no, question_text, answer, difficulty, explanation
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertOptionQuery = `INSERT INTO quiz_options (
		id, question_id, seq_no, option_text, label
	) VALUES (?, ?, ?, ?, ?)`

	selectQuizByIDQuery = `SELECT
		id "id",
		url "url",
		title "title",
		summary "summary",
		key_entities "key_entities",
		sections "sections",
		related_topics "related_topics",
		created_at "created_at"
	FROM quizzes
	WHERE id = ?`

	selectQuestionsByQuizIDQuery = `SELECT
		id "id",
		quiz_id "quiz_id",
		seq_no "seq_no",
		question_text "question_text",
		answer "answer",
		difficulty "difficulty",
		explanation "explanation"
	FROM quiz_questions
	WHERE quiz_id = ?
	ORDER BY seq_no ASC`

	selectOptionsByQuizIDQuery = `SELECT
		o.id "id",
		o.question_id "question_id",
		o.seq_no "seq_no",
		o.option_text "option_text",
		o.label "label"
	FROM quiz_options o
	JOIN quiz_questions q ON o.question_id = q.id
	WHERE q.quiz_id = ?
	ORDER BY q.seq_no ASC, o.seq_no ASC`

	listQuizzesQuery = `SELECT
		id "id",
		url "url",
		title "title",
		summary "summary",
		created_at "created_at"
	FROM quizzes
	ORDER BY created_at DESC, id DESC
	OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
// Queries use '?' placeholders and are rebound for the connected driver.
type QuizDatabaseAdapter struct {
	db DBTX
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func (a *QuizDatabaseAdapter) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, a.db)
}

// InsertQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) InsertQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot insert nil quiz")
	}
	m := toModelQuiz(quiz)
	ex := a.exec(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(insertQuizQuery),
		m.ID,
		m.URL,
		m.Title,
		m.Summary,
		m.KeyEntities,
		m.Sections,
		m.RelatedTopics,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// InsertQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) InsertQuestion(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("cannot insert nil question")
	}
	m := toModelQuestion(question)
	ex := a.exec(ctx)
	_, err := ex.ExecContext(ctx, ex.Rebind(insertQuestionQuery),
		m.ID,
		m.QuizID,
		m.Position,
		m.QuestionText,
		m.Answer,
		m.Difficulty,
		m.Explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question %s: %w", question.ID, err)
	}
	return nil
}

// InsertOptions inserts one row per option. Multi-row VALUES is not portable to Oracle.
func (a *QuizDatabaseAdapter) InsertOptions(ctx context.Context, options []*domain.Option) error {
	ex := a.exec(ctx)
	query := ex.Rebind(insertOptionQuery)
	for _, o := range options {
		m := toModelOption(o)
		if _, err := ex.ExecContext(ctx, query, m.ID, m.QuestionID, m.Position, m.OptionText, m.Label); err != nil {
			return fmt.Errorf("failed to insert option %s: %w", o.ID, err)
		}
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var m models.Quiz
	ex := a.exec(ctx)
	if err := ex.GetContext(ctx, &m, ex.Rebind(selectQuizByIDQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&m), nil
}

// GetQuestionsByQuizID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*domain.Question, error) {
	var rows []models.Question
	ex := a.exec(ctx)
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(selectQuestionsByQuizIDQuery), quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// GetOptionsByQuizID returns every option of a quiz ordered by question then option position.
func (a *QuizDatabaseAdapter) GetOptionsByQuizID(ctx context.Context, quizID string) ([]*domain.Option, error) {
	var rows []models.Option
	ex := a.exec(ctx)
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(selectOptionsByQuizIDQuery), quizID); err != nil {
		return nil, fmt.Errorf("failed to get options for quiz %s: %w", quizID, err)
	}
	options := make([]*domain.Option, 0, len(rows))
	for i := range rows {
		options = append(options, toDomainOption(&rows[i]))
	}
	return options, nil
}

// ListQuizzes implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, limit, offset int) ([]*domain.QuizSummary, error) {
	var rows []models.QuizSummary
	ex := a.exec(ctx)
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(listQuizzesQuery), offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	out := make([]*domain.QuizSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.QuizSummary{
			ID:        r.ID,
			URL:       r.URL,
			Title:     r.Title,
			Summary:   r.Summary.String,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
