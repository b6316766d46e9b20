package survey

import (
	"encoding/json"
	"slices"
	"strings"
)

// Answer holds a respondent's submitted value for one question. Multi is set
// for multiple-selection answers, Text for everything else; at most one of
// the two is meaningful.
type Answer struct {
	Text  string
	Multi []string
}

// UnmarshalJSON accepts either a bare string or an array of strings, which is
// how the runtime submits accumulated answers.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Answer{Text: s}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err != nil {
		return err
	}
	*a = Answer{Multi: multi}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi != nil {
		return json.Marshal(a.Multi)
	}
	return json.Marshal(a.Text)
}

// Answers maps question id to the respondent's answer so far.
type Answers map[string]Answer

// Matches evaluates the rule's comparison against the accumulated answers.
// A missing answer makes equals/contains false and their negations true.
// contains is substring match on text answers and set membership on
// multi-selection answers.
func (r ConditionalLogic) Matches(answers Answers) bool {
	a, ok := answers[r.QuestionID]
	switch r.Operator {
	case OpEquals:
		return ok && a.Multi == nil && a.Text == r.Value
	case OpNotEquals:
		return !ok || a.Multi != nil || a.Text != r.Value
	case OpContains:
		if !ok {
			return false
		}
		if a.Multi != nil {
			return slices.Contains(a.Multi, r.Value)
		}
		return strings.Contains(a.Text, r.Value)
	case OpNotContains:
		if !ok {
			return true
		}
		if a.Multi != nil {
			return !slices.Contains(a.Multi, r.Value)
		}
		return !strings.Contains(a.Text, r.Value)
	}
	return false
}

// Visible reports whether the question with the given id should be presented
// for the accumulated answers. Questions without an enabled rule are always
// visible. A rule referencing a missing, self, or not-strictly-earlier
// question evaluates as always-false, hiding the question; reordering never
// rewrites rules, it only changes how they evaluate.
func (d Definition) Visible(id string, answers Answers) bool {
	q, ok := d.Question(id)
	if !ok {
		return false
	}
	r := q.Conditional
	if r == nil || !r.Enabled {
		return true
	}
	dep, ok := d.Question(r.QuestionID)
	if !ok || dep.Order >= q.Order {
		return false
	}
	return r.Matches(answers)
}

// VisibleQuestions returns, in order, the questions to present for the
// accumulated answers. This is the evaluation the public runtime performs
// after each answer.
func (d Definition) VisibleQuestions(answers Answers) []SurveyQuestion {
	out := make([]SurveyQuestion, 0, len(d.Questions))
	for _, q := range d.Questions {
		if d.Visible(q.ID, answers) {
			out = append(out, q)
		}
	}
	return out
}
