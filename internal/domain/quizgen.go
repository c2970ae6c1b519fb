package domain

import "context"

// GeneratedQuestion is one question as produced by the generative model.
type GeneratedQuestion struct {
	Question    string     `json:"question" yaml:"question" validate:"required"`
	Options     []string   `json:"options" yaml:"options" validate:"len=4,dive,required"`
	Answer      string     `json:"answer" yaml:"answer" validate:"required"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty" validate:"required,oneof=easy medium hard"`
	Explanation string     `json:"explanation" yaml:"explanation" validate:"required"`
}

// GeneratedQuiz is the schema the generative model must answer with.
// A field absent from the response decodes to nil and fails "required";
// an explicit empty object or list is accepted.
type GeneratedQuiz struct {
	KeyEntities   map[string][]string `json:"key_entities" yaml:"key_entities" validate:"required"`
	Sections      []string            `json:"sections" yaml:"sections" validate:"required"`
	Quiz          []GeneratedQuestion `json:"quiz" yaml:"quiz" validate:"min=5,max=10,dive"`
	RelatedTopics []string            `json:"related_topics" yaml:"related_topics" validate:"required,min=3,max=5,dive,required"`
}

// QuizGenerator turns source text into a validated quiz.
type QuizGenerator interface {
	Generate(ctx context.Context, text string) (*GeneratedQuiz, error)
}
