package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/emandor/econoguide_service/internal/telemetry"
)

type Gemini struct {
	client *genai.Client
	Model  string
}

// NewGemini builds a Gemini API client. baseURL is empty in production and
// points at a test server otherwise.
func NewGemini(ctx context.Context, key, model, baseURL string) (*Gemini, error) {
	if key == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, Model: model}, nil
}

func (c *Gemini) Name() SourceName { return SourceGemini }

func (c *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	log := telemetry.L().With().
		Str("provider", string(c.Name())).
		Str("purpose", string(req.Purpose)).
		Bool("search", req.Search).
		Int("prompt_len", len(req.Prompt)).
		Logger()
	log.Debug().Msg("gemini_request")

	t0 := time.Now()
	res, err := c.client.Models.GenerateContent(ctx, c.Model, genai.Text(req.Prompt), generationConfig(req))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Error().Int("status_code", apiErr.Code).Str("status", apiErr.Status).Msg("gemini_http_error")
			return "", unavailable(c.Name(), apiErr.Code, err)
		}
		log.Error().Err(err).Msg("gemini_request_failed")
		return "", unavailable(c.Name(), 0, err)
	}

	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return "", &EmptyResponse{Source: c.Name(), Reason: "blocked: " + string(res.PromptFeedback.BlockReason)}
	}

	text := strings.TrimSpace(res.Text())
	finish := ""
	if len(res.Candidates) > 0 {
		finish = string(res.Candidates[0].FinishReason)
	}
	log.Debug().
		Int("text_len", len(text)).
		Str("finish_reason", finish).
		Int64("latency_ms", time.Since(t0).Milliseconds()).
		Msg("gemini_response")

	if text == "" {
		return "", &EmptyResponse{Source: c.Name(), Reason: strings.ToLower(finish)}
	}
	return text, nil
}

// generationConfig maps the sampling settings onto the SDK config. Search
// grounding and a JSON MIME type cannot be combined, so Search wins.
func generationConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Sampling.Temperature)),
		TopP:            genai.Ptr(float32(req.Sampling.TopP)),
		MaxOutputTokens: int32(req.Sampling.MaxTokens),
	}
	if req.Sampling.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(req.Sampling.TopK))
	}
	switch {
	case req.Search:
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case req.JSONOnly:
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}
