package providers

import (
	"context"
)

type SourceName string

const (
	SourceGemini  SourceName = "GEMINI"
	SourceOpenAI  SourceName = "OPENAI"
	SourceClaude  SourceName = "CLAUDE"
	SourceOffline SourceName = "OFFLINE"
)

// Purpose labels what a completion is for. Providers use it for logging;
// the offline provider also uses it to pick its canned payload.
type Purpose string

const (
	PurposeQuestions Purpose = "questions"
	PurposeAnalysis  Purpose = "analysis"
)

// Sampling is the fixed generation configuration sent with every prompt.
type Sampling struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

type Request struct {
	Purpose  Purpose
	Prompt   string
	Sampling Sampling

	// Search enables web search grounding where the provider supports it.
	Search bool
	// JSONOnly asks for a JSON MIME type when it does not conflict with Search.
	JSONOnly bool

	// Items is the number of questions requested, or answers submitted.
	Items int
}

// Client sends a single prompt to a generative model and returns its raw text.
type Client interface {
	Name() SourceName
	Complete(ctx context.Context, req Request) (string, error)
}
