package service

import (
	"context"
	"testing"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pipeline struct {
	fetcher   *MockArticleFetcher
	generator *MockQuizGenerator
	repo      *memoryQuizRepository
	service   QuizService
}

func newPipeline() *pipeline {
	p := &pipeline{
		fetcher:   new(MockArticleFetcher),
		generator: new(MockQuizGenerator),
		repo:      newMemoryQuizRepository(),
	}
	p.service = NewQuizService(
		p.fetcher,
		p.generator,
		NewQuizNormalizer(p.repo, &fakeTxManager{}),
		NewQuizDenormalizer(p.repo, nil, 0),
	)
	return p
}

func TestGenerateQuiz_Success(t *testing.T) {
	p := newPipeline()
	article := combinedArticle()
	req := &dto.GenerateQuizRequest{URLs: []string{article.URLs[0], article.URLs[1], article.URLs[0]}}

	p.fetcher.On("Fetch", mock.Anything, req.URLs).Return(article, nil)
	p.generator.On("Generate", mock.Anything, article.Body).Return(generatedQuiz(6), nil)

	resp, err := p.service.GenerateQuiz(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing, https://en.wikipedia.org/wiki/Enigma_machine", resp.URL)
	assert.Equal(t, article.Title, resp.Title)
	assert.Equal(t, article.Summary, resp.Summary)
	assert.Len(t, resp.Quiz, 6)

	stored, err := p.service.GetQuiz(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Quiz, stored.Quiz)
	assert.Equal(t, resp.KeyEntities, stored.KeyEntities)
}

func TestGenerateQuiz_StoresAttemptedURLs(t *testing.T) {
	p := newPipeline()
	article := combinedArticle()
	article.SucceededURLs = article.URLs[:1]

	p.fetcher.On("Fetch", mock.Anything, mock.Anything).Return(article, nil)
	p.generator.On("Generate", mock.Anything, mock.Anything).Return(generatedQuiz(5), nil)

	resp, err := p.service.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{URLs: article.URLs})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinURLs(article.URLs), resp.URL)
}

func TestGenerateQuiz_FetchFailureSkipsGeneration(t *testing.T) {
	p := newPipeline()
	urls := []string{"https://unreachable.invalid"}
	p.fetcher.On("Fetch", mock.Anything, urls).Return(nil, domain.NewContentUnavailableError(urls))

	resp, err := p.service.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{URLs: urls})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, domain.HasCode(err, domain.CodeContentUnavailable))
	p.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_GenerationFailureStoresNothing(t *testing.T) {
	p := newPipeline()
	p.fetcher.On("Fetch", mock.Anything, mock.Anything).Return(combinedArticle(), nil)
	p.generator.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.NewGenerationFailedError(assert.AnError))

	resp, err := p.service.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{URLs: []string{"https://a"}})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
	assert.Empty(t, p.repo.quizzes)
}

func TestListHistory_NewestFirst(t *testing.T) {
	p := newPipeline()
	p.fetcher.On("Fetch", mock.Anything, mock.Anything).Return(combinedArticle(), nil)
	p.generator.On("Generate", mock.Anything, mock.Anything).Return(generatedQuiz(5), nil)

	ctx := context.Background()
	first, err := p.service.GenerateQuiz(ctx, &dto.GenerateQuizRequest{URLs: []string{"https://a"}})
	require.NoError(t, err)
	second, err := p.service.GenerateQuiz(ctx, &dto.GenerateQuizRequest{URLs: []string{"https://a"}})
	require.NoError(t, err)

	items, err := p.service.ListHistory(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}
