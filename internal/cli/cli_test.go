package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	quizzes   map[string]*dto.QuizResponse
	order     []string
	generated *dto.GenerateQuizRequest
}

func newStubService() *stubService {
	return &stubService{quizzes: map[string]*dto.QuizResponse{}}
}

func (s *stubService) add(id, title string) {
	s.quizzes[id] = &dto.QuizResponse{
		ID:    id,
		Title: title,
		Quiz: []dto.QuestionResponse{{
			Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: "easy",
		}},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	s.order = append([]string{id}, s.order...)
}

func (s *stubService) GenerateQuiz(_ context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	s.generated = req
	s.add("01HZX3S9V6J4Q2M8N7K5P1R0TZ", "Generated")
	return s.quizzes["01HZX3S9V6J4Q2M8N7K5P1R0TZ"], nil
}

func (s *stubService) GetQuiz(_ context.Context, id string) (*dto.QuizResponse, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return q, nil
}

func (s *stubService) ListHistory(_ context.Context, limit, offset int) ([]dto.HistoryItem, error) {
	var items []dto.HistoryItem
	for i, id := range s.order {
		if i < offset || len(items) == limit {
			continue
		}
		q := s.quizzes[id]
		items = append(items, dto.HistoryItem{ID: q.ID, Title: q.Title, CreatedAt: q.CreatedAt})
	}
	return items, nil
}

func run(t *testing.T, svc *stubService, args ...string) (string, error) {
	t.Helper()
	closed := false
	factory := func(context.Context, string) (service.QuizService, func(), error) {
		return svc, func() { closed = true }, nil
	}
	cmd := NewRootCmd(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		assert.True(t, closed, "service must be released")
	}
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	svc := newStubService()

	out, err := run(t, svc, "generate", "--url", "https://a", "-u", "https://b")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b"}, svc.generated.URLs)

	var resp dto.QuizResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Generated", resp.Title)
}

func TestGenerateCmd_RequiresURL(t *testing.T) {
	_, err := run(t, newStubService(), "generate")
	assert.Error(t, err)
}

func TestHistoryCmd(t *testing.T) {
	svc := newStubService()
	svc.add("01HZX3S9V6J4Q2M8N7K5P1R0TA", "First")
	svc.add("01HZX3S9V6J4Q2M8N7K5P1R0TB", "Second")

	out, err := run(t, svc, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Second")
	assert.NotContains(t, out, "First")
	assert.Contains(t, out, "2024-05-01 12:00")
}

func TestShowCmd_YAML(t *testing.T) {
	svc := newStubService()
	svc.add("01HZX3S9V6J4Q2M8N7K5P1R0TA", "First")

	out, err := run(t, svc, "show", "01HZX3S9V6J4Q2M8N7K5P1R0TA", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: First")
}

func TestShowCmd_NotFound(t *testing.T) {
	_, err := run(t, newStubService(), "show", "01HZX3S9V6J4Q2M8N7K5P1R0TA")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeQuizNotFound))
}

func TestExportCmd_LatestToFile(t *testing.T) {
	svc := newStubService()
	svc.add("01HZX3S9V6J4Q2M8N7K5P1R0TA", "First")
	svc.add("01HZX3S9V6J4Q2M8N7K5P1R0TB", "Second")
	path := filepath.Join(t.TempDir(), "quiz.yaml")

	out, err := run(t, svc, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "01HZX3S9V6J4Q2M8N7K5P1R0TB")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Second")
}

func TestExportCmd_EmptyHistory(t *testing.T) {
	_, err := run(t, newStubService(), "export")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}
