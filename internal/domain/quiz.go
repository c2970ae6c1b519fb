package domain

import (
	"context"
	"strings"
	"time"
)

// Difficulty is the closed set of question difficulty tags.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes case and surrounding whitespace.
func ParseDifficulty(s string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(s)))
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MaxTitleLength bounds the stored quiz title, in characters.
const MaxTitleLength = 200

// OptionsPerQuestion is the number of options every generated question carries.
const OptionsPerQuestion = 4

var optionLabels = []string{"A", "B", "C", "D"}

// OptionLabel returns the positional label for the option at index i.
// Positions outside the A-D scheme get "?".
func OptionLabel(i int) string {
	if i < 0 || i >= len(optionLabels) {
		return "?"
	}
	return optionLabels[i]
}

// Quiz is one generated quiz together with its ordered questions.
type Quiz struct {
	ID            string
	URL           string
	Title         string
	Summary       string
	KeyEntities   map[string][]string
	Sections      []string
	RelatedTopics []string
	CreatedAt     time.Time
	Questions     []*Question
}

type Question struct {
	ID          string
	QuizID      string
	Position    int
	Text        string
	Answer      string
	Difficulty  Difficulty
	Explanation string
	Options     []*Option
}

// OptionTexts returns the option texts in stored order.
func (q *Question) OptionTexts() []string {
	texts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		texts = append(texts, o.Text)
	}
	return texts
}

type Option struct {
	ID         string
	QuestionID string
	Position   int
	Text       string
	Label      string
}

// QuizSummary is the abbreviated row returned by history listings.
type QuizSummary struct {
	ID        string
	URL       string
	Title     string
	Summary   string
	CreatedAt time.Time
}

// QuizMetadata is the document-level information stored alongside generated questions.
type QuizMetadata struct {
	URL     string
	Title   string
	Summary string
}

const urlSeparator = ", "

// JoinURLs renders the source list the way it is persisted on a quiz.
func JoinURLs(urls []string) string {
	return strings.Join(urls, urlSeparator)
}

func SplitURLs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, urlSeparator)
}

// QuizRepository is the relational store for quizzes, questions and options.
// Write methods join a transaction carried by ctx when one is present.
type QuizRepository interface {
	InsertQuiz(ctx context.Context, quiz *Quiz) error
	InsertQuestion(ctx context.Context, question *Question) error
	InsertOptions(ctx context.Context, options []*Option) error

	// GetQuizByID returns nil, nil when no quiz has the given id.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*Question, error)
	GetOptionsByQuizID(ctx context.Context, quizID string) ([]*Option, error)
	ListQuizzes(ctx context.Context, limit, offset int) ([]*QuizSummary, error)
}

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
