package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/emandor/econoguide_service/internal/telemetry"
)

type OpenAI struct {
	client *openai.Client
	Model  string
}

func NewOpenAI(key, model, baseURL string) (*OpenAI, error) {
	if key == "" {
		return nil, errors.New("openai: api key is required")
	}
	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), Model: model}, nil
}

func (c *OpenAI) Name() SourceName { return SourceOpenAI }

func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	log := telemetry.L().With().
		Str("provider", string(c.Name())).
		Str("purpose", string(req.Purpose)).
		Int("prompt_len", len(req.Prompt)).
		Logger()
	if req.Search {
		log.Warn().Msg("openai_search_grounding_unsupported")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxCompletionTokens: req.Sampling.MaxTokens,
		Temperature:         float32(req.Sampling.Temperature),
		TopP:                float32(req.Sampling.TopP),
	}

	t0 := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		log.Error().Err(err).Msg("openai_request_failed")
		return "", unavailable(c.Name(), openAIStatus(err), err)
	}
	log.Debug().
		Int("total_tokens", resp.Usage.TotalTokens).
		Int64("latency_ms", time.Since(t0).Milliseconds()).
		Msg("openai_response")

	if len(resp.Choices) == 0 {
		return "", &EmptyResponse{Source: c.Name(), Reason: "no choices"}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &EmptyResponse{Source: c.Name(), Reason: string(resp.Choices[0].FinishReason)}
	}
	return text, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
