package quizgen

import (
	"github.com/tmc/langchaingo/prompts"
)

// formatInstructions describes the JSON document the model must return.
const formatInstructions = `Respond with a single JSON object and nothing else. It must match this JSON schema:
{
  "type": "object",
  "required": ["key_entities", "sections", "quiz", "related_topics"],
  "properties": {
    "key_entities": {
      "type": "object",
      "description": "Key entities grouped by category, e.g. people, organizations, locations",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "sections": {"type": "array", "items": {"type": "string"}, "description": "Sections covered by the article"},
    "quiz": {
      "type": "array",
      "minItems": 5,
      "maxItems": 10,
      "items": {
        "type": "object",
        "required": ["question", "options", "answer", "difficulty", "explanation"],
        "properties": {
          "question": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}, "minItems": 4, "maxItems": 4},
          "answer": {"type": "string", "description": "Must be exactly one of the options"},
          "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
          "explanation": {"type": "string"}
        }
      }
    },
    "related_topics": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 5}
  }
}`

const quizPromptTemplate = `You are an expert educational content creator.
Analyze the following text and generate a quiz.

Requirements:
1. Create between 5 and 10 multiple-choice questions.
2. Each question must have exactly 4 options.
3. Provide the correct answer, copied verbatim from one of the options.
4. Assign a difficulty level (easy, medium, hard).
5. Provide a short explanation for the answer.
6. Extract key entities (people, organizations, locations, etc.) grouped by category.
7. Identify the main sections covered.
8. Suggest 3-5 related topics for further reading.

{{.format_instructions}}

Text:
{{.text}}
`

func newQuizPrompt() prompts.PromptTemplate {
	tmpl := prompts.NewPromptTemplate(quizPromptTemplate, []string{"text"})
	tmpl.PartialVariables = map[string]any{
		"format_instructions": formatInstructions,
	}
	return tmpl
}
