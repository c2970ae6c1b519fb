package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockQuizService
type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuizFunc      func(ctx context.Context, id string) (*dto.QuizResponse, error)
	ListHistoryFunc  func(ctx context.Context, limit, offset int) ([]dto.HistoryItem, error)
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ListHistory(ctx context.Context, limit, offset int) ([]dto.HistoryItem, error) {
	if m.ListHistoryFunc != nil {
		return m.ListHistoryFunc(ctx, limit, offset)
	}
	panic("MockQuizService.ListHistoryFunc not implemented")
}

const validID = "01HZX3S9V6J4Q2M8N7K5P1R0TB"

func setupApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app.Group("/api"), handler.NewQuizHandler(svc), middleware.NewValidationMiddleware())
	return app
}

func sampleResponse() *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:          validID,
		URL:         "https://en.wikipedia.org/wiki/Alan_Turing",
		Title:       "Alan Turing",
		Summary:     "English mathematician",
		KeyEntities: map[string][]string{"people": {"Alan Turing"}},
		Sections:    []string{"Early life"},
		Quiz: []dto.QuestionResponse{{
			Question:    "Where did Turing work during the war?",
			Options:     []string{"Bletchley Park", "Cambridge", "Princeton", "Manchester"},
			Answer:      "Bletchley Park",
			Difficulty:  "easy",
			Explanation: "Codebreaking at Bletchley Park.",
		}},
		RelatedTopics: []string{"Enigma"},
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func postGenerate(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestGenerateQuiz_Success(t *testing.T) {
	var gotURLs []string
	svc := &MockQuizService{
		GenerateQuizFunc: func(_ context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
			gotURLs = req.URLs
			return sampleResponse(), nil
		},
	}

	status, body := postGenerate(t, setupApp(svc), `{"urls":["https://en.wikipedia.org/wiki/Alan_Turing","https://en.wikipedia.org/wiki/Alan_Turing"]}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, gotURLs, 2, "duplicates are passed through and removed by the fetcher")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(body, &resp))
	for _, key := range []string{"id", "url", "title", "summary", "key_entities", "sections", "quiz", "related_topics", "created_at"} {
		assert.Contains(t, resp, key)
	}
	question := resp["quiz"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"Bletchley Park", "Cambridge", "Princeton", "Manchester"}, question["options"])
}

func TestGenerateQuiz_ValidationErrors(t *testing.T) {
	app := setupApp(&MockQuizService{})

	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"urls":[]}`},
		{"missing field", `{}`},
		{"not a url", `{"urls":["not a url"]}`},
		{"unsupported scheme", `{"urls":["ftp://example.com/file"]}`},
		{"too many", `{"urls":["https://a.com/1","https://a.com/2","https://a.com/3","https://a.com/4","https://a.com/5","https://a.com/6","https://a.com/7","https://a.com/8","https://a.com/9","https://a.com/10","https://a.com/11"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postGenerate(t, app, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Contains(t, string(body), string(domain.CodeValidation))
		})
	}
}

func TestGenerateQuiz_MalformedBody(t *testing.T) {
	status, body := postGenerate(t, setupApp(&MockQuizService{}), `{"urls":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), string(domain.CodeInvalidInput))
}

func TestGenerateQuiz_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   domain.ErrorCode
	}{
		{"content unavailable", domain.NewContentUnavailableError([]string{"https://down.example"}), fiber.StatusBadRequest, domain.CodeContentUnavailable},
		{"generation failed", domain.NewGenerationFailedError(errors.New("bad json")), fiber.StatusInternalServerError, domain.CodeGenerationFailed},
		{"llm unavailable", domain.NewLLMServiceError(errors.New("timeout")), fiber.StatusServiceUnavailable, domain.CodeLLMServiceError},
		{"persistence", domain.NewPersistenceError("Failed to save quiz", errors.New("db down")), fiber.StatusInternalServerError, domain.CodePersistence},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, domain.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockQuizService{
				GenerateQuizFunc: func(context.Context, *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
					return nil, tt.err
				},
			}
			status, body := postGenerate(t, setupApp(svc), `{"urls":["https://down.example"]}`)
			assert.Equal(t, tt.status, status)

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, string(tt.code), resp.Code)
		})
	}
}

func TestGetQuiz(t *testing.T) {
	svc := &MockQuizService{
		GetQuizFunc: func(_ context.Context, id string) (*dto.QuizResponse, error) {
			if id == validID {
				return sampleResponse(), nil
			}
			return nil, domain.NewQuizNotFoundError(id)
		},
	}
	app := setupApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz/"+validID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.QuizResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, sampleResponse(), &got)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/quiz/01HZX3S9V6J4Q2M8N7K5P1R0TC", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/quiz/not-an-id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetHistory(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &MockQuizService{
		ListHistoryFunc: func(_ context.Context, limit, offset int) ([]dto.HistoryItem, error) {
			gotLimit, gotOffset = limit, offset
			return []dto.HistoryItem{{ID: validID, Title: "Alan Turing"}}, nil
		},
	}
	app := setupApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/history?limit=5&offset=10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)

	var items []dto.HistoryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 1)

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1"} {
		resp, err = app.Test(httptest.NewRequest("GET", "/api/history?"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	healthy := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": handler.PingerFunc(func(context.Context) error { return nil }),
	})
	app.Get("/health", healthy.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	app = fiber.New()
	broken := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": handler.PingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	app.Get("/health", broken.Health)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
