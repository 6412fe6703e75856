package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/emandor/econoguide_service/internal/providers"
)

// Reason codes carried by SchemaMismatch.
const (
	ReasonWrongType     = "wrong_type"
	ReasonMissingField  = "missing_field"
	ReasonWrongCount    = "wrong_count"
	ReasonEmptyValue    = "empty_value"
	ReasonOutOfRange    = "out_of_range"
	ReasonCountMismatch = "count_mismatch"
	ReasonInvalid       = "invalid"
)

// AnswersPerQuestion is fixed for every generated question.
const AnswersPerQuestion = 5

// SchemaMismatch means the model output is valid JSON of the wrong shape.
// Path is a JSON pointer to the first offending value.
type SchemaMismatch struct {
	Reason string
	Path   string
	Detail string
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("model output does not match expected shape: %s at %s: %s", e.Reason, e.Path, e.Detail)
}

// Shape names the structure a model reply is checked against.
type Shape interface {
	key() string
	definition() map[string]any
}

// ShapeQuestions is a list of exactly Count questions with five answers each.
type ShapeQuestions struct {
	Count int
}

func (s ShapeQuestions) key() string { return "questions-" + strconv.Itoa(s.Count) }

func (s ShapeQuestions) definition() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": s.Count,
		"maxItems": s.Count,
		"items": map[string]any{
			"type":     "object",
			"required": []string{"question", "answers"},
			"properties": map[string]any{
				"question": nonBlank,
				"answers": map[string]any{
					"type":     "array",
					"minItems": AnswersPerQuestion,
					"maxItems": AnswersPerQuestion,
					"items":    nonBlank,
				},
			},
		},
	}
}

// ShapeAssessment is a scored analysis. When Answered > 0 the reply must
// score exactly that many questions.
type ShapeAssessment struct {
	Answered int
}

func (s ShapeAssessment) key() string { return "assessment" }

func (s ShapeAssessment) definition() map[string]any {
	str := map[string]any{"type": "string"}
	strList := map[string]any{"type": "array", "items": str}
	return map[string]any{
		"type":     "object",
		"required": []string{"question_scores", "total_score", "interpretation", "recommendations"},
		"properties": map[string]any{
			"question_scores": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"question_id", "question_text", "selected_answer", "score", "explanation"},
					"properties": map[string]any{
						"question_id":     map[string]any{"type": "integer"},
						"question_text":   str,
						"selected_answer": str,
						"score":           map[string]any{"type": "integer", "minimum": 10, "maximum": 100},
						"explanation":     str,
					},
				},
			},
			"total_score":    map[string]any{"type": "integer"},
			"interpretation": str,
			"recommendations": map[string]any{
				"type":     "array",
				"minItems": 5,
				"maxItems": 7,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"area", "status", "immediate_actions", "long_term_goals"},
					"properties": map[string]any{
						"area":              nonBlank,
						"status":            str,
						"immediate_actions": strList,
						"long_term_goals":   strList,
						"resources": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []string{"title", "url"},
								"properties": map[string]any{
									"title": str,
									"url":   str,
								},
							},
						},
					},
				},
			},
		},
	}
}

// a string with at least one non-space character
var nonBlank = map[string]any{"type": "string", "minLength": 1, "pattern": `\S`}

var (
	schemaCache sync.Map // map[string]*jsonschema.Schema
	printer     = message.NewPrinter(language.English)
)

// Validate checks raw JSON against shape. It returns nil or *SchemaMismatch;
// other errors mean the schema itself is broken.
func Validate(shape Shape, raw json.RawMessage) error {
	_, err := validate(shape, raw)
	return err
}

// validate returns the decoded instance so callers can reuse it.
func validate(shape Shape, raw json.RawMessage) (any, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &SchemaMismatch{Reason: ReasonInvalid, Path: "/", Detail: err.Error()}
	}

	compiled, err := compiledSchema(shape)
	if err != nil {
		return nil, err
	}

	if err := compiled.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validate %s: %w", shape.key(), err)
		}
		leaf := firstViolation(ve)
		return nil, &SchemaMismatch{
			Reason: reasonFor(leaf.ErrorKind),
			Path:   pointer(leaf.InstanceLocation),
			Detail: leaf.ErrorKind.LocalizedString(printer),
		}
	}

	if a, ok := shape.(ShapeAssessment); ok && a.Answered > 0 {
		obj, _ := inst.(map[string]any)
		scores, _ := obj["question_scores"].([]any)
		if len(scores) != a.Answered {
			return nil, &SchemaMismatch{
				Reason: ReasonCountMismatch,
				Path:   "/question_scores",
				Detail: fmt.Sprintf("got %d scores for %d answers", len(scores), a.Answered),
			}
		}
	}
	return inst, nil
}

func compiledSchema(shape Shape) (*jsonschema.Schema, error) {
	key := shape.key()
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(shape.definition())
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", key, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", key, err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + key + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", key, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", key, err)
	}

	schemaCache.Store(key, compiled)
	return compiled, nil
}

// firstViolation picks the leaf error that comes first in document order:
// parents before children, lower array indices first.
func firstViolation(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	var best *jsonschema.ValidationError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			if best == nil || locationLess(e.InstanceLocation, best.InstanceLocation) {
				best = e
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return best
}

func locationLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

func reasonFor(k jsonschema.ErrorKind) string {
	switch k.(type) {
	case *kind.Required:
		return ReasonMissingField
	case *kind.Type:
		return ReasonWrongType
	case *kind.MinItems, *kind.MaxItems:
		return ReasonWrongCount
	case *kind.MinLength, *kind.Pattern:
		return ReasonEmptyValue
	case *kind.Minimum, *kind.Maximum:
		return ReasonOutOfRange
	default:
		return ReasonInvalid
	}
}

func pointer(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	return "/" + strings.Join(loc, "/")
}

// ParseQuestions sanitizes raw model text and returns exactly count
// validated questions.
func ParseQuestions(text string, count int) ([]Question, error) {
	raw, err := providers.CleanJSON(text)
	if err != nil {
		return nil, err
	}
	inst, err := validate(ShapeQuestions{Count: count}, raw)
	if err != nil {
		return nil, err
	}
	var qs []Question
	if err := decodeInstance(inst, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// ParseAssessment sanitizes raw model text into a validated result scoring
// answered questions.
func ParseAssessment(text string, answered int) (*AssessmentResult, error) {
	raw, err := providers.CleanJSON(text)
	if err != nil {
		return nil, err
	}
	inst, err := validate(ShapeAssessment{Answered: answered}, raw)
	if err != nil {
		return nil, err
	}
	var res AssessmentResult
	if err := decodeInstance(inst, &res); err != nil {
		return nil, err
	}
	res.Raw = raw
	return &res, nil
}

// decodeInstance fills out from a validated instance. Whole numbers written
// with a fraction or exponent (70.0, 7e1) count as integers, as they do for
// the schema.
func decodeInstance(inst any, out any) error {
	b, err := json.Marshal(wholeNumbers(inst))
	if err == nil {
		err = json.Unmarshal(b, out)
	}
	if err != nil {
		return &SchemaMismatch{Reason: ReasonWrongType, Path: "/", Detail: err.Error()}
	}
	return nil
}

func wholeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = wholeNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = wholeNumbers(e)
		}
	case json.Number:
		if !strings.ContainsAny(string(t), ".eE") {
			return t
		}
		f, err := t.Float64()
		if err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
	}
	return v
}
