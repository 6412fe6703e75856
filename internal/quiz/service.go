package quiz

import (
	"context"
	"time"

	"github.com/emandor/econoguide_service/internal/providers"
	"github.com/emandor/econoguide_service/internal/telemetry"
)

// DefaultQuestionCount is the canonical quiz length.
const DefaultQuestionCount = 15

type Service struct {
	client   providers.Client
	sampling providers.Sampling
	search   bool
	count    int
}

type Option func(*Service)

// WithSampling overrides the generation parameters sent with every prompt.
func WithSampling(s providers.Sampling) Option {
	return func(svc *Service) { svc.sampling = s }
}

// WithSearch toggles search grounding for answer analysis.
func WithSearch(on bool) Option {
	return func(svc *Service) { svc.search = on }
}

// WithQuestionCount sets how many questions a generated quiz must have.
func WithQuestionCount(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.count = n
		}
	}
}

func NewService(client providers.Client, opts ...Option) *Service {
	svc := &Service{
		client:   client,
		sampling: providers.Sampling{Temperature: 0.7, TopP: 0.95, TopK: 40, MaxTokens: 8192},
		search:   true,
		count:    DefaultQuestionCount,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

func (s *Service) QuestionCount() int { return s.count }

// GenerateQuestions asks the model for a fresh quiz and validates it.
func (s *Service) GenerateQuestions(ctx context.Context) ([]Question, error) {
	log := telemetry.L().With().Str("provider", string(s.client.Name())).Int("count", s.count).Logger()

	t0 := time.Now()
	text, err := s.client.Complete(ctx, providers.Request{
		Purpose:  providers.PurposeQuestions,
		Prompt:   BuildQuestionPrompt(s.count),
		Sampling: s.sampling,
		JSONOnly: true,
		Items:    s.count,
	})
	if err != nil {
		log.Error().Err(err).Msg("model_request_failed")
		return nil, err
	}

	qs, err := ParseQuestions(text, s.count)
	if err != nil {
		log.Warn().Err(err).Int("text_len", len(text)).Msg("questions_rejected")
		return nil, err
	}
	log.Info().Int64("latency_ms", time.Since(t0).Milliseconds()).Msg("quiz_generated")
	return qs, nil
}

// Analyze scores the submitted answers and returns recommendations.
func (s *Service) Analyze(ctx context.Context, subs []Submission) (*AssessmentResult, error) {
	log := telemetry.L().With().Str("provider", string(s.client.Name())).Int("answered", len(subs)).Logger()

	t0 := time.Now()
	text, err := s.client.Complete(ctx, providers.Request{
		Purpose:  providers.PurposeAnalysis,
		Prompt:   BuildAnalysisPrompt(subs),
		Sampling: s.sampling,
		Search:   s.search,
		JSONOnly: true,
		Items:    len(subs),
	})
	if err != nil {
		log.Error().Err(err).Msg("model_request_failed")
		return nil, err
	}

	res, err := ParseAssessment(text, len(subs))
	if err != nil {
		log.Warn().Err(err).Int("text_len", len(text)).Msg("assessment_rejected")
		return nil, err
	}
	log.Info().
		Int("total_score", res.TotalScore).
		Float64("average_score", res.AverageScore()).
		Int64("latency_ms", time.Since(t0).Milliseconds()).
		Msg("quiz_analyzed")
	return res, nil
}
