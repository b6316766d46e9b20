package survey

import (
	"fmt"

	"github.com/google/uuid"
)

// Definition is the ordered question list of one survey. It has value
// semantics: every operation returns a new Definition and leaves the receiver
// untouched, so an editor session can treat its draft as a plain value whose
// only external effect is an explicit save.
//
// Invariant: after every operation the Order values of the questions are
// exactly 0..n-1, each used once, matching slice position.
type Definition struct {
	Questions []SurveyQuestion `json:"questions"`
}

// renumbered re-derives every Order from slice position. Always a total
// re-derivation, never an incremental shift.
func renumbered(questions []SurveyQuestion) []SurveyQuestion {
	for i := range questions {
		questions[i].Order = i
	}
	return questions
}

func (d Definition) copied() []SurveyQuestion {
	return append([]SurveyQuestion(nil), d.Questions...)
}

// Len returns the number of questions.
func (d Definition) Len() int { return len(d.Questions) }

// IndexOf returns the slice position of the question with the given id, or -1.
func (d Definition) IndexOf(id string) int {
	for i, q := range d.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Question returns the question with the given id.
func (d Definition) Question(id string) (SurveyQuestion, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.Questions[i], true
	}
	return SurveyQuestion{}, false
}

// Append creates a question of type t at the end of the list.
func (d Definition) Append(t QuestionType) (Definition, error) {
	q, err := New(t)
	if err != nil {
		return d, err
	}
	q.Order = len(d.Questions)
	return Definition{Questions: append(d.copied(), q)}, nil
}

// Delete removes the question with the given id and renumbers the remainder.
// Unknown ids are a no-op.
func (d Definition) Delete(id string) Definition {
	i := d.IndexOf(id)
	if i < 0 {
		return d
	}
	qs := d.copied()
	qs = append(qs[:i], qs[i+1:]...)
	return Definition{Questions: renumbered(qs)}
}

// Duplicate clones the question with the given id: fresh id, title suffixed
// to signal the copy, payload and rule copied verbatim, appended at the end.
// Unknown ids are a no-op.
func (d Definition) Duplicate(id string) Definition {
	i := d.IndexOf(id)
	if i < 0 {
		return d
	}
	clone := d.Questions[i].cloned()
	clone.ID = uuid.NewString()
	clone.Title = clone.Title + " (copy)"
	clone.Order = len(d.Questions)
	return Definition{Questions: append(d.copied(), clone)}
}

// Move removes the question at source and reinserts it at target, then
// renumbers everything by position. Indexes are clamped into range, so the
// operation is total.
func (d Definition) Move(source, target int) Definition {
	n := len(d.Questions)
	if n == 0 {
		return d
	}
	source = clamp(source, n-1)
	target = clamp(target, n-1)
	if source == target {
		return d
	}
	qs := d.copied()
	moved := qs[source]
	qs = append(qs[:source], qs[source+1:]...)
	qs = append(qs[:target], append([]SurveyQuestion{moved}, qs[target:]...)...)
	return Definition{Questions: renumbered(qs)}
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// Replace swaps in an edited question, matched by id, keeping its position
// and order. Unknown ids are a no-op.
func (d Definition) Replace(q SurveyQuestion) Definition {
	i := d.IndexOf(q.ID)
	if i < 0 {
		return d
	}
	qs := d.copied()
	q.Order = qs[i].Order
	qs[i] = q
	return Definition{Questions: qs}
}

// EligibleDependencies lists the questions a rule on the question with the
// given id may reference: exactly those with a strictly smaller order. This
// is what keeps the dependency relation acyclic without a cycle checker.
func (d Definition) EligibleDependencies(id string) []SurveyQuestion {
	i := d.IndexOf(id)
	if i < 0 {
		return nil
	}
	out := make([]SurveyQuestion, 0, i)
	for _, q := range d.Questions {
		if q.Order < d.Questions[i].Order {
			out = append(out, q)
		}
	}
	return out
}

// StaleRules returns the ids of questions whose enabled rule references a
// question that is missing or no longer strictly earlier. Reordering never
// rewrites rules; callers use this to warn the author, and the evaluator
// treats such rules as always-false.
func (d Definition) StaleRules() []string {
	var out []string
	for _, q := range d.Questions {
		r := q.Conditional
		if r == nil || !r.Enabled {
			continue
		}
		dep, ok := d.Question(r.QuestionID)
		if !ok || dep.Order >= q.Order {
			out = append(out, q.ID)
		}
	}
	return out
}

// Clone returns a deep copy with every question id reminted and conditional
// references remapped to the new ids, for use when a whole survey is
// duplicated and ids must stay globally unique.
func (d Definition) Clone() Definition {
	remap := make(map[string]string, len(d.Questions))
	qs := make([]SurveyQuestion, len(d.Questions))
	for i, q := range d.Questions {
		fresh := q.cloned()
		fresh.ID = uuid.NewString()
		remap[q.ID] = fresh.ID
		qs[i] = fresh
	}
	for i, q := range qs {
		if q.Conditional == nil {
			continue
		}
		if mapped, ok := remap[q.Conditional.QuestionID]; ok {
			qs[i].Conditional.QuestionID = mapped
		}
	}
	return Definition{Questions: qs}
}

// Validate checks the invariants the operations maintain: dense 0-based
// orders matching position, unique ids, known types, non-empty choice
// options, and backward conditional references. Loads trust the saved
// document and do not call this; it exists for tests and diagnostics.
func (d Definition) Validate() error {
	seen := make(map[string]bool, len(d.Questions))
	for i, q := range d.Questions {
		if q.ID == "" {
			return fmt.Errorf("question at position %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		if q.Order != i {
			return fmt.Errorf("question %s has order %d at position %d", q.ID, q.Order, i)
		}
		if !KnownType(q.Type) {
			return fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
		}
		if p, ok := q.Payload.(ChoicePayload); ok && len(p.Options) == 0 {
			return fmt.Errorf("question %s has no options", q.ID)
		}
		if r := q.Conditional; r != nil && r.Enabled {
			dep, ok := d.Question(r.QuestionID)
			if !ok {
				return fmt.Errorf("question %s references missing question %s", q.ID, r.QuestionID)
			}
			if dep.Order >= q.Order {
				return fmt.Errorf("question %s references non-earlier question %s", q.ID, r.QuestionID)
			}
			if !KnownOperator(r.Operator) {
				return fmt.Errorf("question %s has unknown operator %q", q.ID, r.Operator)
			}
		}
	}
	return nil
}
