package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emandor/econoguide_service/internal/telemetry"
)

// Offline answers from canned data without calling any model. It exists for
// demos and local frontend work and must be selected explicitly.
type Offline struct{}

func (c *Offline) Name() SourceName { return SourceOffline }

type offlineQuestion struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

var offlineQuestions = []offlineQuestion{
	{
		Question: "What is the primary purpose of a budget?",
		Answers: []string{
			"To impress others with financial knowledge",
			"To record past purchases",
			"To track daily expenses only",
			"To calculate monthly bills",
			"To plan and control spending, saving, and investing",
		},
	},
	{
		Question: "What is compound interest?",
		Answers: []string{
			"A type of tax deduction",
			"Interest paid to compound your debt",
			"A fixed interest rate that never changes",
			"Interest earned only on the principal amount",
			"Interest earned on both principal and accumulated interest",
		},
	},
	{
		Question: "How should you approach investing for retirement?",
		Answers: []string{
			"Avoid investing and keep all savings in cash",
			"Put everything into a single individual stock",
			"Start later once your income is higher",
			"Contribute occasionally when you remember",
			"Contribute regularly to a diversified, tax-advantaged account",
		},
	},
}

var offlineAreas = []struct {
	Area, Status, Action, Goal, Title, URL string
}{
	{"Budgeting", "needs attention", "Track every expense for 30 days", "Keep a written monthly budget", "Budgeting basics", "https://www.consumerfinance.gov/consumer-tools/budgeting/"},
	{"Emergency Fund", "developing", "Open a separate high-yield savings account", "Save 3-6 months of expenses", "Emergency savings", "https://www.consumerfinance.gov/an-essential-guide-to-building-an-emergency-fund/"},
	{"Debt Management", "developing", "List all debts with their interest rates", "Pay off high-interest debt first", "Managing debt", "https://www.consumer.ftc.gov/articles/how-get-out-debt"},
	{"Investing", "on track", "Learn the difference between index funds and single stocks", "Invest monthly in a diversified portfolio", "Investing basics", "https://www.investor.gov/introduction-investing"},
	{"Retirement Planning", "needs attention", "Check whether your employer matches contributions", "Contribute at least 15% of income for retirement", "Retirement planning", "https://www.investor.gov/additional-resources/retirement-toolkit"},
}

func (c *Offline) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", unavailable(c.Name(), 0, err)
	}
	log := telemetry.L()
	log.Info().Str("provider", string(c.Name())).Str("purpose", string(req.Purpose)).Msg("offline_provider_used")

	var payload any
	switch req.Purpose {
	case PurposeQuestions:
		payload = offlineQuestionSet(req.Items)
	case PurposeAnalysis:
		payload = offlineAssessment(req.Items)
	default:
		return "", &EmptyResponse{Source: c.Name(), Reason: fmt.Sprintf("unknown purpose %q", req.Purpose)}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func offlineQuestionSet(n int) []offlineQuestion {
	out := make([]offlineQuestion, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, offlineQuestions[i%len(offlineQuestions)])
	}
	return out
}

// offlineAssessment scores deterministically between 60 and 100.
func offlineAssessment(answered int) map[string]any {
	scores := make([]map[string]any, 0, answered)
	total := 0
	for i := 0; i < answered; i++ {
		score := 60 + (i*7)%41
		total += score
		scores = append(scores, map[string]any{
			"question_id":     i + 1,
			"question_text":   fmt.Sprintf("Question %d", i+1),
			"selected_answer": "offline",
			"score":           score,
			"explanation":     "Offline mode: the answer was not analysed by a model.",
		})
	}

	recs := make([]map[string]any, 0, len(offlineAreas))
	for _, a := range offlineAreas {
		recs = append(recs, map[string]any{
			"area":              a.Area,
			"status":            a.Status,
			"immediate_actions": []string{a.Action},
			"long_term_goals":   []string{a.Goal},
			"resources":         []map[string]string{{"title": a.Title, "url": a.URL}},
		})
	}

	return map[string]any{
		"question_scores": scores,
		"total_score":     total,
		"interpretation":  "Offline assessment generated without a language model.",
		"recommendations": recs,
	}
}
