package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONStringSlice stores a []string as a JSON array in a text/CLOB column.
type JSONStringSlice []string

// Value implements the driver.Valuer interface
func (s JSONStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *JSONStringSlice) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("JSONStringSlice Scan: %w", err)
	}
	if data == nil {
		*s = JSONStringSlice{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}

// JSONEntityMap stores category -> entity names as a JSON object.
type JSONEntityMap map[string][]string

// Value implements the driver.Valuer interface
func (m JSONEntityMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(map[string][]string(m))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONEntityMap) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("JSONEntityMap Scan: %w", err)
	}
	if data == nil {
		*m = JSONEntityMap{}
		return nil
	}
	var out map[string][]string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out == nil {
		out = map[string][]string{}
	}
	*m = out
	return nil
}

// scanBytes normalizes driver values. NULL, empty and "null" all yield nil.
func scanBytes(value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID            string          `db:"id"`
	URL           string          `db:"url"`
	Title         string          `db:"title"`
	Summary       sql.NullString  `db:"summary"`
	KeyEntities   JSONEntityMap   `db:"key_entities"`
	Sections      JSONStringSlice `db:"sections"`
	RelatedTopics JSONStringSlice `db:"related_topics"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Question is a row of the quiz_questions table.
type Question struct {
	ID           string         `db:"id"`
	QuizID       string         `db:"quiz_id"`
	Position     int            `db:"seq_no"`
	QuestionText string         `db:"question_text"`
	Answer       string         `db:"answer"`
	Difficulty   string         `db:"difficulty"`
	Explanation  sql.NullString `db:"explanation"`
}

// Option is a row of the quiz_options table.
type Option struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	Position   int    `db:"seq_no"`
	OptionText string `db:"option_text"`
	Label      string `db:"label"`
}

// QuizSummary is the projection used by history listings.
type QuizSummary struct {
	ID        string         `db:"id"`
	URL       string         `db:"url"`
	Title     string         `db:"title"`
	Summary   sql.NullString `db:"summary"`
	CreatedAt time.Time      `db:"created_at"`
}
