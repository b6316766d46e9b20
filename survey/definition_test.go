package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertDense checks the ordering invariant: orders are exactly 0..n-1 by
// position and ids are unique.
func assertDense(t *testing.T, def Definition) {
	t.Helper()
	seen := make(map[string]bool, len(def.Questions))
	for i, q := range def.Questions {
		assert.Equal(t, i, q.Order, "order at position %d", i)
		assert.False(t, seen[q.ID], "duplicate id %s", q.ID)
		seen[q.ID] = true
	}
}

func buildDefinition(t *testing.T, types ...QuestionType) Definition {
	t.Helper()
	var def Definition
	var err error
	for _, typ := range types {
		def, err = def.Append(typ)
		require.NoError(t, err)
	}
	return def
}

func TestOrderDensityAcrossOperations(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating, TypeDropdown, TypeLongText)
	assertDense(t, def)

	def = def.Delete(def.Questions[2].ID)
	assertDense(t, def)
	assert.Equal(t, 4, def.Len())

	def = def.Duplicate(def.Questions[0].ID)
	assertDense(t, def)
	assert.Equal(t, 5, def.Len())

	def = def.Move(4, 0)
	assertDense(t, def)
	def = def.Move(0, 3)
	assertDense(t, def)

	def = def.Delete(def.Questions[0].ID)
	assertDense(t, def)
	assert.NoError(t, def.Validate())
}

func TestAppendAssignsNextOrder(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating)
	require.Equal(t, 3, def.Len())
	for i, q := range def.Questions {
		assert.Equal(t, i, q.Order)
	}
}

func TestDeleteMiddleRenumbersAndKeepsIds(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating)
	def = def.Replace(def.Questions[1].SetOption(0, "A").SetOption(1, "B"))

	first, last := def.Questions[0].ID, def.Questions[2].ID
	def = def.Delete(def.Questions[1].ID)

	require.Equal(t, 2, def.Len())
	assert.Equal(t, first, def.Questions[0].ID)
	assert.Equal(t, last, def.Questions[1].ID)
	assert.Equal(t, 0, def.Questions[0].Order)
	assert.Equal(t, 1, def.Questions[1].Order)
}

func TestDeleteUnknownIdIsNoop(t *testing.T) {
	def := buildDefinition(t, TypeShortText)
	assert.Equal(t, def, def.Delete("nope"))
}

func TestDuplicateAppendsAtEnd(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating)
	original := def.Questions[1].WithTitle("Favorite region")
	def = def.Replace(original)
	original = def.Questions[1]

	def = def.Duplicate(original.ID)
	require.Equal(t, 4, def.Len())

	clone := def.Questions[3]
	assert.Equal(t, 3, clone.Order)
	assert.Equal(t, "Favorite region (copy)", clone.Title)
	assert.NotEqual(t, original.ID, clone.ID)
	assert.Equal(t, original.Payload, clone.Payload)

	// original untouched
	assert.Equal(t, original.ID, def.Questions[1].ID)
	assert.Equal(t, 1, def.Questions[1].Order)
	assert.Equal(t, "Favorite region", def.Questions[1].Title)
	assertDense(t, def)
}

func TestDuplicateClonesPayloadDeeply(t *testing.T) {
	def := buildDefinition(t, TypeDropdown)
	def = def.Duplicate(def.Questions[0].ID)

	changed := def.Questions[1].SetOption(0, "changed")
	def = def.Replace(changed)

	assert.Equal(t, "Option 1", def.Questions[0].Payload.(ChoicePayload).Options[0])
	assert.Equal(t, "changed", def.Questions[1].Payload.(ChoicePayload).Options[0])
}

func TestMoveRenumbersByPosition(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating, TypeDropdown)
	ids := []string{def.Questions[0].ID, def.Questions[1].ID, def.Questions[2].ID, def.Questions[3].ID}

	def = def.Move(0, 2)
	assertDense(t, def)
	assert.Equal(t, []string{ids[1], ids[2], ids[0], ids[3]}, questionIDs(def))

	def = def.Move(3, 0)
	assertDense(t, def)
	assert.Equal(t, []string{ids[3], ids[1], ids[2], ids[0]}, questionIDs(def))
}

func TestMoveClampsIndexes(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeRating)
	moved := def.Move(-4, 99)
	assertDense(t, moved)
	assert.Equal(t, def.Questions[1].ID, moved.Questions[0].ID)

	var empty Definition
	assert.Equal(t, empty, empty.Move(0, 1))
}

func TestOperationsLeaveReceiverUntouched(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating)
	snapshot := questionIDs(def)

	def.Delete(def.Questions[1].ID)
	def.Duplicate(def.Questions[0].ID)
	def.Move(0, 2)

	assert.Equal(t, snapshot, questionIDs(def))
	assertDense(t, def)
}

func TestEligibleDependencies(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice, TypeRating)

	assert.Empty(t, def.EligibleDependencies(def.Questions[0].ID))

	deps := def.EligibleDependencies(def.Questions[2].ID)
	require.Len(t, deps, 2)
	assert.Equal(t, def.Questions[0].ID, deps[0].ID)
	assert.Equal(t, def.Questions[1].ID, deps[1].ID)

	assert.Nil(t, def.EligibleDependencies("nope"))
}

func TestCloneRemintsIdsAndRemapsRules(t *testing.T) {
	def := buildDefinition(t, TypeSingleChoice, TypeShortText)
	rule := ConditionalLogic{
		Enabled:    true,
		QuestionID: def.Questions[0].ID,
		Operator:   OpEquals,
		Value:      "Yes",
	}
	def = def.Replace(def.Questions[1].WithConditional(rule))

	clone := def.Clone()
	require.Equal(t, 2, clone.Len())
	assert.NotEqual(t, def.Questions[0].ID, clone.Questions[0].ID)
	assert.NotEqual(t, def.Questions[1].ID, clone.Questions[1].ID)
	assert.Equal(t, clone.Questions[0].ID, clone.Questions[1].Conditional.QuestionID)
	assert.NoError(t, clone.Validate())

	// source rule still points at the source question
	assert.Equal(t, def.Questions[0].ID, def.Questions[1].Conditional.QuestionID)
}

func TestValidateRejectsBrokenInvariants(t *testing.T) {
	def := buildDefinition(t, TypeShortText, TypeSingleChoice)
	require.NoError(t, def.Validate())

	gapped := Definition{Questions: append([]SurveyQuestion(nil), def.Questions...)}
	gapped.Questions[1].Order = 5
	assert.Error(t, gapped.Validate())

	forward := def.Replace(def.Questions[0].WithConditional(ConditionalLogic{
		Enabled:    true,
		QuestionID: def.Questions[1].ID,
		Operator:   OpEquals,
		Value:      "x",
	}))
	assert.Error(t, forward.Validate())

	missing := def.Replace(def.Questions[1].WithConditional(ConditionalLogic{
		Enabled:    true,
		QuestionID: "gone",
		Operator:   OpEquals,
		Value:      "x",
	}))
	assert.Error(t, missing.Validate())
}

func questionIDs(def Definition) []string {
	out := make([]string, len(def.Questions))
	for i, q := range def.Questions {
		out[i] = q.ID
	}
	return out
}
