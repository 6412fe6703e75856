package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuestionPrompt(t *testing.T) {
	p := BuildQuestionPrompt(15)

	assert.Contains(t, p, "exactly 15 multiple-choice questions")
	assert.Contains(t, p, "exactly 5 answers")
	assert.Contains(t, p, "least to the most financially sound")
	for _, topic := range Topics {
		assert.Contains(t, p, topic)
	}
	assert.Equal(t, p, BuildQuestionPrompt(15))
}

func TestBuildAnalysisPrompt(t *testing.T) {
	p := BuildAnalysisPrompt([]Submission{
		{QuestionID: 7, Question: "What is a budget?", SelectedAnswer: "A plan", AllAnswers: []string{"A list", "A plan"}},
		{QuestionID: 9, Question: "What is APR?", SelectedAnswer: "A rate", AllAnswers: []string{"A fee", "A rate"}},
	})

	assert.Contains(t, p, "Question 1: What is a budget?\nSelected answer: A plan\nAll options: A list | A plan")
	assert.Contains(t, p, "Question 2: What is APR?")
	assert.Contains(t, p, `"question_scores"`)
	assert.Contains(t, p, "5 to 7 recommendation areas")
	assert.Less(t, strings.Index(p, "Question 1:"), strings.Index(p, "Question 2:"))
}

func TestBuildAnalysisPrompt_Empty(t *testing.T) {
	p := BuildAnalysisPrompt(nil)

	assert.NotContains(t, p, "Question ")
	assert.Contains(t, p, `"recommendations"`)
}

func TestAverageScore(t *testing.T) {
	assert.Zero(t, (&AssessmentResult{}).AverageScore())

	res := &AssessmentResult{QuestionScores: []ScoredQuestion{{Score: 50}, {Score: 100}, {Score: 60}}}
	assert.InDelta(t, 70.0, res.AverageScore(), 1e-9)
}
