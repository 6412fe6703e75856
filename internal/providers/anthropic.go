package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/emandor/econoguide_service/internal/telemetry"
)

type Anthropic struct {
	client *anthropic.Client
	Model  string
}

func NewAnthropic(key, model, baseURL string) (*Anthropic, error) {
	if key == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	// retries are handled by WithRetry
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Anthropic{client: &client, Model: model}, nil
}

func (c *Anthropic) Name() SourceName { return SourceClaude }

func (c *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	log := telemetry.L().With().
		Str("provider", string(c.Name())).
		Str("purpose", string(req.Purpose)).
		Int("prompt_len", len(req.Prompt)).
		Logger()
	if req.Search {
		log.Warn().Msg("anthropic_search_grounding_unsupported")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.Model),
		MaxTokens: int64(req.Sampling.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Sampling.Temperature),
	}
	if req.Sampling.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.Sampling.TopK))
	}

	t0 := time.Now()
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		log.Error().Err(err).Int("status_code", status).Msg("anthropic_request_failed")
		return "", unavailable(c.Name(), status, err)
	}
	log.Debug().
		Int64("output_tokens", msg.Usage.OutputTokens).
		Int64("latency_ms", time.Since(t0).Milliseconds()).
		Msg("anthropic_response")

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &EmptyResponse{Source: c.Name(), Reason: string(msg.StopReason)}
	}
	return text, nil
}
