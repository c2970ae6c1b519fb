package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuizService struct {
	history []dto.HistoryItem
}

func (s *stubQuizService) GenerateQuiz(context.Context, *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	return nil, domain.NewContentUnavailableError(nil)
}

func (s *stubQuizService) GetQuiz(_ context.Context, id string) (*dto.QuizResponse, error) {
	return nil, domain.NewQuizNotFoundError(id)
}

func (s *stubQuizService) ListHistory(context.Context, int, int) ([]dto.HistoryItem, error) {
	return s.history, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{BodyLimit: 1024 * 1024},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestNewServer_Routes(t *testing.T) {
	metrics.Init()
	svc := &stubQuizService{history: []dto.HistoryItem{{ID: "01HZX3S9V6J4Q2M8N7K5P1R0TB", Title: "Alan Turing"}}}
	checks := map[string]handler.Pinger{
		"database": handler.PingerFunc(func(context.Context) error { return nil }),
	}
	server := NewServer(testConfig(), svc, checks)

	resp, err := server.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = server.Test(httptest.NewRequest("GET", "/api/history", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var items []dto.HistoryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 1)

	resp, err = server.Test(httptest.NewRequest("GET", "/api/quiz/01HZX3S9V6J4Q2M8N7K5P1R0TB", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"urls":["https://down.example"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = server.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = server.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wikiquiz_http_requests_total")
}
