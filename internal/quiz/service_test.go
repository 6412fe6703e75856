package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emandor/econoguide_service/internal/providers"
)

type stubClient struct {
	text string
	err  error
	got  []providers.Request
}

func (s *stubClient) Name() providers.SourceName { return "STUB" }

func (s *stubClient) Complete(_ context.Context, req providers.Request) (string, error) {
	s.got = append(s.got, req)
	return s.text, s.err
}

func TestService_GenerateQuestions(t *testing.T) {
	stub := &stubClient{text: questionsJSON(15, nil)}
	svc := NewService(stub)

	qs, err := svc.GenerateQuestions(context.Background())

	require.NoError(t, err)
	assert.Len(t, qs, 15)
	require.Len(t, stub.got, 1)
	req := stub.got[0]
	assert.Equal(t, providers.PurposeQuestions, req.Purpose)
	assert.False(t, req.Search)
	assert.True(t, req.JSONOnly)
	assert.Equal(t, 15, req.Items)
	assert.Equal(t, BuildQuestionPrompt(15), req.Prompt)
}

func TestService_QuestionCountOption(t *testing.T) {
	stub := &stubClient{text: questionsJSON(5, nil)}
	svc := NewService(stub, WithQuestionCount(5), WithQuestionCount(0))

	qs, err := svc.GenerateQuestions(context.Background())

	require.NoError(t, err)
	assert.Len(t, qs, 5)
	assert.Equal(t, 5, svc.QuestionCount())
}

func TestService_GenerateQuestionsPropagatesModelError(t *testing.T) {
	down := &providers.ModelUnavailable{Status: 503, Err: errors.New("overloaded")}
	svc := NewService(&stubClient{err: down})

	_, err := svc.GenerateQuestions(context.Background())

	require.ErrorIs(t, err, down)
}

func TestService_Analyze(t *testing.T) {
	stub := &stubClient{text: encode(assessmentMap(1))}
	sampling := providers.Sampling{Temperature: 0.2, TopP: 0.5, TopK: 8, MaxTokens: 1024}
	svc := NewService(stub, WithSampling(sampling), WithSearch(true))
	subs := []Submission{{QuestionID: 1, Question: "Q", SelectedAnswer: "A", AllAnswers: []string{"A", "B", "C", "D", "E"}}}

	res, err := svc.Analyze(context.Background(), subs)

	require.NoError(t, err)
	assert.Equal(t, 80, res.TotalScore)
	require.Len(t, stub.got, 1)
	req := stub.got[0]
	assert.Equal(t, providers.PurposeAnalysis, req.Purpose)
	assert.True(t, req.Search)
	assert.Equal(t, sampling, req.Sampling)
	assert.Equal(t, 1, req.Items)
	assert.Contains(t, req.Prompt, "Question 1: Q")
}

func TestService_AnalyzeRejectsWrongScoreCount(t *testing.T) {
	svc := NewService(&stubClient{text: encode(assessmentMap(2))})

	_, err := svc.Analyze(context.Background(), []Submission{{QuestionID: 1}})

	requireMismatch(t, err, ReasonCountMismatch, "/question_scores")
}
