package quiz

import "encoding/json"

// Question is one generated quiz item with five answers ordered from least
// to most financially sound.
type Question struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Submission is a single answered question sent back for analysis.
type Submission struct {
	QuestionID     int      `json:"question_id"`
	Question       string   `json:"question"`
	SelectedAnswer string   `json:"selected_answer"`
	AllAnswers     []string `json:"all_answers"`
}

type SubmitRequest struct {
	Answers []Submission `json:"answers"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type ScoredQuestion struct {
	QuestionID     int    `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedAnswer string `json:"selected_answer"`
	Score          int    `json:"score"`
	Explanation    string `json:"explanation"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Recommendation struct {
	Area             string     `json:"area"`
	Status           string     `json:"status"`
	ImmediateActions []string   `json:"immediate_actions"`
	LongTermGoals    []string   `json:"long_term_goals"`
	Resources        []Resource `json:"resources"`
}

type AssessmentResult struct {
	QuestionScores  []ScoredQuestion `json:"question_scores"`
	TotalScore      int              `json:"total_score"`
	Interpretation  string           `json:"interpretation"`
	Recommendations []Recommendation `json:"recommendations"`

	// Raw is the validated model JSON, sent to clients as-is.
	Raw json.RawMessage `json:"-"`
}

// AverageScore is the mean per-question score, 0 when nothing was scored.
func (a *AssessmentResult) AverageScore() float64 {
	if len(a.QuestionScores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range a.QuestionScores {
		sum += s.Score
	}
	return float64(sum) / float64(len(a.QuestionScores))
}
