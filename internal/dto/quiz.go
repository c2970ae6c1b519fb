package dto

import "time"

// GenerateQuizRequest is the body of POST /api/generate
// @Description Source documents to build a quiz from
type GenerateQuizRequest struct {
	URLs []string `json:"urls" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// QuestionResponse is one question of a quiz. Options are exposed as plain texts
// in stored order.
type QuestionResponse struct {
	Question    string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Answer      string   `json:"answer" yaml:"answer"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz with its ordered questions
type QuizResponse struct {
	ID            string              `json:"id" yaml:"id"`
	URL           string              `json:"url" yaml:"url"`
	Title         string              `json:"title" yaml:"title"`
	Summary       string              `json:"summary" yaml:"summary"`
	KeyEntities   map[string][]string `json:"key_entities" yaml:"key_entities"`
	Sections      []string            `json:"sections" yaml:"sections"`
	Quiz          []QuestionResponse  `json:"quiz" yaml:"quiz"`
	RelatedTopics []string            `json:"related_topics" yaml:"related_topics"`
	CreatedAt     time.Time           `json:"created_at" yaml:"created_at"`
}

// HistoryItem is one row of GET /api/history
type HistoryItem struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Summary   string    `json:"summary" yaml:"summary"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// HistoryRequest carries the paging parameters of GET /api/history
type HistoryRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
