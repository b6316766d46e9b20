package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesOperators(t *testing.T) {
	answers := Answers{
		"city":    {Text: "Lisbon, Portugal"},
		"regions": {Multi: []string{"Coast", "Mountains"}},
	}

	cases := []struct {
		name string
		rule ConditionalLogic
		want bool
	}{
		{"equals match", ConditionalLogic{QuestionID: "city", Operator: OpEquals, Value: "Lisbon, Portugal"}, true},
		{"equals mismatch", ConditionalLogic{QuestionID: "city", Operator: OpEquals, Value: "Porto"}, false},
		{"equals missing answer", ConditionalLogic{QuestionID: "ghost", Operator: OpEquals, Value: "x"}, false},
		{"equals on multi answer", ConditionalLogic{QuestionID: "regions", Operator: OpEquals, Value: "Coast"}, false},
		{"not_equals mismatch", ConditionalLogic{QuestionID: "city", Operator: OpNotEquals, Value: "Porto"}, true},
		{"not_equals match", ConditionalLogic{QuestionID: "city", Operator: OpNotEquals, Value: "Lisbon, Portugal"}, false},
		{"not_equals missing answer", ConditionalLogic{QuestionID: "ghost", Operator: OpNotEquals, Value: "x"}, true},
		{"contains substring", ConditionalLogic{QuestionID: "city", Operator: OpContains, Value: "Portugal"}, true},
		{"contains substring miss", ConditionalLogic{QuestionID: "city", Operator: OpContains, Value: "Spain"}, false},
		{"contains membership", ConditionalLogic{QuestionID: "regions", Operator: OpContains, Value: "Coast"}, true},
		{"contains membership is exact", ConditionalLogic{QuestionID: "regions", Operator: OpContains, Value: "Coa"}, false},
		{"contains missing answer", ConditionalLogic{QuestionID: "ghost", Operator: OpContains, Value: "x"}, false},
		{"not_contains membership", ConditionalLogic{QuestionID: "regions", Operator: OpNotContains, Value: "Desert"}, true},
		{"not_contains hit", ConditionalLogic{QuestionID: "regions", Operator: OpNotContains, Value: "Coast"}, false},
		{"not_contains missing answer", ConditionalLogic{QuestionID: "ghost", Operator: OpNotContains, Value: "x"}, true},
		{"unknown operator", ConditionalLogic{QuestionID: "city", Operator: "regex", Value: "x"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule.Matches(answers))
		})
	}
}

func TestDisabledRuleAlwaysVisible(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeShortText)
	def = def.Replace(def.Questions[1].WithConditional(ConditionalLogic{
		Enabled:    false,
		QuestionID: def.Questions[0].ID,
		Operator:   OpEquals,
		Value:      "never",
	}))

	assert.True(t, def.Visible(def.Questions[1].ID, Answers{}))
}

func TestVisibleQuestionsEvaluatesInOrder(t *testing.T) {
	def := buildDefinition(t, TypeSingleChoice, TypeShortText, TypeRating)
	def = def.Replace(def.Questions[0].SetOption(0, "Yes").SetOption(1, "No"))
	gate := def.Questions[0].ID
	def = def.Replace(def.Questions[2].WithConditional(ConditionalLogic{
		Enabled:    true,
		QuestionID: gate,
		Operator:   OpEquals,
		Value:      "Yes",
	}))

	shown := def.VisibleQuestions(Answers{gate: {Text: "Yes"}})
	require.Len(t, shown, 3)

	shown = def.VisibleQuestions(Answers{gate: {Text: "No"}})
	require.Len(t, shown, 2)
	assert.Equal(t, def.Questions[0].ID, shown[0].ID)
	assert.Equal(t, def.Questions[1].ID, shown[1].ID)

	// unanswered gate: the dependent question is not yet shown
	shown = def.VisibleQuestions(Answers{})
	require.Len(t, shown, 2)
}

// A reorder that drags a question below its dependent leaves the rule intact
// but inert: the evaluator sees a reference that is no longer strictly
// earlier and treats it as always-false.
func TestReorderMakesRuleInert(t *testing.T) {
	def := buildDefinition(t, TypeSingleChoice, TypeShortText, TypeRating)
	gate := def.Questions[0].ID
	dependent := def.Questions[2].ID
	def = def.Replace(def.Questions[2].WithConditional(ConditionalLogic{
		Enabled:    true,
		QuestionID: gate,
		Operator:   OpEquals,
		Value:      "Yes",
	}))

	assert.Empty(t, def.StaleRules())
	assert.True(t, def.Visible(dependent, Answers{gate: {Text: "Yes"}}))

	// drag the gate question to the end, past its dependent
	moved := def.Move(0, 2)
	assertDense(t, moved)

	q, ok := moved.Question(dependent)
	require.True(t, ok)
	require.NotNil(t, q.Conditional)
	assert.True(t, q.Conditional.Enabled, "reorder must not disable the rule")
	assert.Equal(t, gate, q.Conditional.QuestionID, "reorder must not rewrite the rule")

	assert.False(t, moved.Visible(dependent, Answers{gate: {Text: "Yes"}}))
	assert.Equal(t, []string{dependent}, moved.StaleRules())

	// dragging back restores the original behavior
	restored := moved.Move(2, 0)
	assert.Empty(t, restored.StaleRules())
	assert.True(t, restored.Visible(dependent, Answers{gate: {Text: "Yes"}}))
}

func TestSelfReferenceIsAlwaysFalse(t *testing.T) {
	def := buildDefinition(t, TypeShortText)
	id := def.Questions[0].ID
	def = def.Replace(def.Questions[0].WithConditional(ConditionalLogic{
		Enabled:    true,
		QuestionID: id,
		Operator:   OpEquals,
		Value:      "x",
	}))

	assert.False(t, def.Visible(id, Answers{id: {Text: "x"}}))
}

func TestAnswerJSON(t *testing.T) {
	var answers Answers
	raw := `{"q1":"Yes","q2":["Coast","Mountains"]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &answers))

	assert.Equal(t, Answer{Text: "Yes"}, answers["q1"])
	assert.Equal(t, Answer{Multi: []string{"Coast", "Mountains"}}, answers["q2"])

	data, err := json.Marshal(answers)
	require.NoError(t, err)

	var again Answers
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, answers, again)
}
