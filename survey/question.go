package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Rating bounds seeded by the registry for new rating questions.
const (
	DefaultMinRating = 1
	DefaultMaxRating = 5
)

// ErrLastOption is returned when an edit would leave a choice question with
// no options.
var ErrLastOption = errors.New("cannot remove the last option")

// Payload carries the type-specific fields of a question. Exactly one
// concrete payload matches each QuestionType; the pairing is fixed by the
// registry and by the JSON codec.
type Payload interface {
	clone() Payload
}

// ChoicePayload backs single_choice, multiple_choice and dropdown questions.
// Options is never empty.
type ChoicePayload struct {
	Options []string
}

func (p ChoicePayload) clone() Payload {
	return ChoicePayload{Options: append([]string(nil), p.Options...)}
}

// TextPayload backs short_text and long_text questions. MaxLength nil means
// unlimited.
type TextPayload struct {
	Placeholder string
	MaxLength   *int
}

func (p TextPayload) clone() Payload {
	out := TextPayload{Placeholder: p.Placeholder}
	if p.MaxLength != nil {
		n := *p.MaxLength
		out.MaxLength = &n
	}
	return out
}

// RatingPayload backs rating questions.
type RatingPayload struct {
	Min int
	Max int
}

func (p RatingPayload) clone() Payload { return p }

// ConditionalLogic makes a question visible only when a strictly-earlier
// question's answer matches. QuestionID names the earlier question.
type ConditionalLogic struct {
	Enabled    bool     `json:"enabled"`
	QuestionID string   `json:"questionId"`
	Operator   Operator `json:"operator"`
	Value      string   `json:"value"`
}

// SurveyQuestion is one entry in a definition. Questions are immutable by
// replacement: every mutator returns a new value with the same ID and Order,
// so list operations keyed on ID stay correct.
type SurveyQuestion struct {
	ID          string
	Type        QuestionType
	Title       string
	Description string
	Required    bool
	Order       int
	Payload     Payload
	Conditional *ConditionalLogic
}

// New creates a question of type t with the registry's default payload and a
// fresh id. Order is assigned by the definition that adopts the question.
func New(t QuestionType) (SurveyQuestion, error) {
	entry, ok := registry[t]
	if !ok {
		return SurveyQuestion{}, fmt.Errorf("unknown question type %q", t)
	}
	return SurveyQuestion{
		ID:      uuid.NewString(),
		Type:    t,
		Payload: entry.payload(),
	}, nil
}

func (q SurveyQuestion) cloned() SurveyQuestion {
	out := q
	if q.Payload != nil {
		out.Payload = q.Payload.clone()
	}
	if q.Conditional != nil {
		rule := *q.Conditional
		out.Conditional = &rule
	}
	return out
}

// WithTitle returns a copy of q with the title replaced.
func (q SurveyQuestion) WithTitle(title string) SurveyQuestion {
	out := q.cloned()
	out.Title = title
	return out
}

// WithDescription returns a copy of q with the description replaced.
func (q SurveyQuestion) WithDescription(desc string) SurveyQuestion {
	out := q.cloned()
	out.Description = desc
	return out
}

// WithRequired returns a copy of q with the required flag set.
func (q SurveyQuestion) WithRequired(required bool) SurveyQuestion {
	out := q.cloned()
	out.Required = required
	return out
}

// WithConditional returns a copy of q carrying the given rule.
func (q SurveyQuestion) WithConditional(rule ConditionalLogic) SurveyQuestion {
	out := q.cloned()
	out.Conditional = &rule
	return out
}

// WithoutConditional returns a copy of q with no conditional rule.
func (q SurveyQuestion) WithoutConditional() SurveyQuestion {
	out := q.cloned()
	out.Conditional = nil
	return out
}

// AddOption appends an option label. No-op for non-choice questions.
func (q SurveyQuestion) AddOption(label string) SurveyQuestion {
	p, ok := q.Payload.(ChoicePayload)
	if !ok {
		return q
	}
	out := q.cloned()
	cp := p.clone().(ChoicePayload)
	cp.Options = append(cp.Options, label)
	out.Payload = cp
	return out
}

// SetOption replaces the option label at index i. Out-of-range indexes and
// non-choice questions are no-ops.
func (q SurveyQuestion) SetOption(i int, label string) SurveyQuestion {
	p, ok := q.Payload.(ChoicePayload)
	if !ok || i < 0 || i >= len(p.Options) {
		return q
	}
	out := q.cloned()
	cp := p.clone().(ChoicePayload)
	cp.Options[i] = label
	out.Payload = cp
	return out
}

// RemoveOption deletes the option at index i. Removing the last remaining
// option is rejected with ErrLastOption; this is the only rejected edit.
func (q SurveyQuestion) RemoveOption(i int) (SurveyQuestion, error) {
	p, ok := q.Payload.(ChoicePayload)
	if !ok || i < 0 || i >= len(p.Options) {
		return q, nil
	}
	if len(p.Options) == 1 {
		return q, ErrLastOption
	}
	out := q.cloned()
	cp := p.clone().(ChoicePayload)
	cp.Options = append(cp.Options[:i], cp.Options[i+1:]...)
	out.Payload = cp
	return out, nil
}

// WithPlaceholder returns a copy of q with the text placeholder replaced.
// No-op for non-text questions.
func (q SurveyQuestion) WithPlaceholder(s string) SurveyQuestion {
	p, ok := q.Payload.(TextPayload)
	if !ok {
		return q
	}
	out := q.cloned()
	tp := p.clone().(TextPayload)
	tp.Placeholder = s
	out.Payload = tp
	return out
}

// WithMaxLength sets the text length limit from raw author input. Anything
// that is not a positive integer coerces to unset rather than erroring.
func (q SurveyQuestion) WithMaxLength(raw string) SurveyQuestion {
	p, ok := q.Payload.(TextPayload)
	if !ok {
		return q
	}
	out := q.cloned()
	tp := p.clone().(TextPayload)
	tp.MaxLength = CoercePositive(raw)
	out.Payload = tp
	return out
}

// WithRatingBounds sets the rating range from raw author input. Inputs that
// do not coerce to positive integers fall back to the defaults.
func (q SurveyQuestion) WithRatingBounds(minRaw, maxRaw string) SurveyQuestion {
	if _, ok := q.Payload.(RatingPayload); !ok {
		return q
	}
	out := q.cloned()
	rp := RatingPayload{Min: DefaultMinRating, Max: DefaultMaxRating}
	if n := CoercePositive(minRaw); n != nil {
		rp.Min = *n
	}
	if n := CoercePositive(maxRaw); n != nil {
		rp.Max = *n
	}
	out.Payload = rp
	return out
}

// CoercePositive parses raw as a positive integer. Empty, non-numeric or
// non-positive input yields nil (unset) instead of an error.
func CoercePositive(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// questionJSON is the flat wire shape of a question. Which optional fields
// are present depends on the type tag.
type questionJSON struct {
	ID          string            `json:"id"`
	Type        QuestionType      `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Required    bool              `json:"required"`
	Order       int               `json:"order"`
	Options     []string          `json:"options,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	MaxLength   *int              `json:"maxLength,omitempty"`
	MinRating   *int              `json:"minRating,omitempty"`
	MaxRating   *int              `json:"maxRating,omitempty"`
	Conditional *ConditionalLogic `json:"conditionalLogic,omitempty"`
}

// MarshalJSON flattens the payload into the wire shape.
func (q SurveyQuestion) MarshalJSON() ([]byte, error) {
	wire := questionJSON{
		ID:          q.ID,
		Type:        q.Type,
		Title:       q.Title,
		Description: q.Description,
		Required:    q.Required,
		Order:       q.Order,
		Conditional: q.Conditional,
	}
	switch p := q.Payload.(type) {
	case ChoicePayload:
		wire.Options = p.Options
	case TextPayload:
		wire.Placeholder = p.Placeholder
		wire.MaxLength = p.MaxLength
	case RatingPayload:
		minR, maxR := p.Min, p.Max
		wire.MinRating = &minR
		wire.MaxRating = &maxR
	}
	return json.Marshal(wire)
}

// UnmarshalJSON rebuilds the payload from the type tag. Unknown type tags are
// an error; a definition with an unrecognised question cannot be edited
// safely.
func (q *SurveyQuestion) UnmarshalJSON(data []byte) error {
	var wire questionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !KnownType(wire.Type) {
		return fmt.Errorf("unknown question type %q", wire.Type)
	}
	out := SurveyQuestion{
		ID:          wire.ID,
		Type:        wire.Type,
		Title:       wire.Title,
		Description: wire.Description,
		Required:    wire.Required,
		Order:       wire.Order,
		Conditional: wire.Conditional,
	}
	switch wire.Type {
	case TypeSingleChoice, TypeMultipleChoice, TypeDropdown:
		out.Payload = ChoicePayload{Options: wire.Options}
	case TypeShortText, TypeLongText:
		out.Payload = TextPayload{Placeholder: wire.Placeholder, MaxLength: wire.MaxLength}
	case TypeRating:
		p := RatingPayload{Min: DefaultMinRating, Max: DefaultMaxRating}
		if wire.MinRating != nil {
			p.Min = *wire.MinRating
		}
		if wire.MaxRating != nil {
			p.Max = *wire.MaxRating
		}
		out.Payload = p
	}
	*q = out
	return nil
}
