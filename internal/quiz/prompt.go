package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// Topics are covered evenly by every generated question set.
var Topics = []string{
	"budgeting",
	"investing",
	"debt management",
	"retirement planning",
	"risk management",
}

const questionInstruction = `You are a financial literacy expert writing an assessment quiz.
Generate exactly %d multiple-choice questions covering these topics evenly: %s.

Rules:
- every question has exactly 5 answers
- order the answers from the least to the most financially sound choice
- keep answers short, distinct and plausible; never leave an answer empty
- do not number the questions or letter the answers

Return ONLY a JSON array, no Markdown, no code fences, no extra text:
[{"question": "question text", "answers": ["answer 1", "answer 2", "answer 3", "answer 4", "answer 5"]}]`

// BuildQuestionPrompt asks the model for count questions with five ordered
// answers each.
func BuildQuestionPrompt(count int) string {
	return fmt.Sprintf(questionInstruction, count, strings.Join(Topics, ", "))
}

const analysisInstruction = `You are a financial literacy advisor. Analyse the quiz answers below.
For each question give a score from 10 to 100 reflecting how financially sound the selected answer is,
with a short explanation. Then give a total score, an interpretation of the overall result and
5 to 7 recommendation areas, each with immediate actions, long term goals and links to reputable,
currently available resources.

`

const analysisSchema = `
Return ONLY a JSON object with exactly this structure, no Markdown, no code fences, no extra text:
{
  "question_scores": [
    {"question_id": 1, "question_text": "string", "selected_answer": "string", "score": 10, "explanation": "string"}
  ],
  "total_score": 0,
  "interpretation": "string",
  "recommendations": [
    {
      "area": "string",
      "status": "string",
      "immediate_actions": ["string"],
      "long_term_goals": ["string"],
      "resources": [{"title": "string", "url": "https://..."}]
    }
  ]
}
Include one entry in question_scores per question above, in the same order.`

// BuildAnalysisPrompt embeds the submitted answers into the scoring template.
// An empty list yields a prompt without question blocks.
func BuildAnalysisPrompt(subs []Submission) string {
	var b strings.Builder
	b.WriteString(analysisInstruction)
	for i, s := range subs {
		b.WriteString("Question ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(s.Question)
		b.WriteString("\nSelected answer: ")
		b.WriteString(s.SelectedAnswer)
		b.WriteString("\nAll options: ")
		b.WriteString(strings.Join(s.AllAnswers, " | "))
		b.WriteString("\n\n")
	}
	b.WriteString(analysisSchema)
	return b.String()
}
