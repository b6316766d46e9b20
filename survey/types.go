package survey

// QuestionType tags the variant of a question. The set is closed: the editor
// only creates questions through New, which consults the registry.
type QuestionType string

const (
	TypeShortText      QuestionType = "short_text"
	TypeLongText       QuestionType = "long_text"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeRating         QuestionType = "rating"
	TypeDropdown       QuestionType = "dropdown"
)

// Operator compares a respondent's answer against a rule's literal value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

type typeEntry struct {
	label   string
	payload func() Payload
}

var registry = map[QuestionType]typeEntry{
	TypeShortText: {"Short text", func() Payload { return TextPayload{} }},
	TypeLongText:  {"Long text", func() Payload { return TextPayload{} }},
	TypeSingleChoice: {"Single choice", func() Payload {
		return ChoicePayload{Options: []string{"Option 1", "Option 2"}}
	}},
	TypeMultipleChoice: {"Multiple choice", func() Payload {
		return ChoicePayload{Options: []string{"Option 1", "Option 2"}}
	}},
	TypeRating: {"Rating", func() Payload {
		return RatingPayload{Min: DefaultMinRating, Max: DefaultMaxRating}
	}},
	TypeDropdown: {"Dropdown", func() Payload {
		return ChoicePayload{Options: []string{"Option 1", "Option 2"}}
	}},
}

// KnownType reports whether t is one of the supported question variants.
func KnownType(t QuestionType) bool {
	_, ok := registry[t]
	return ok
}

// TypeLabel returns the canonical display label for t, or "" if t is unknown.
func TypeLabel(t QuestionType) string {
	return registry[t].label
}

// KnownOperator reports whether op is a supported comparison.
func KnownOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains:
		return true
	}
	return false
}
