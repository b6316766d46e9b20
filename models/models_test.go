package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly-admin/survey"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Berlin City Guide Feedback": "berlin-city-guide-feedback",
		"  Hotels & Hostels 2026!  ": "hotels-hostels-2026",
		"---":                       "survey",
		"":                          "survey",
		"Côte d'Azur":               "c-te-d-azur",
		"already-slugged":           "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusActive))
	assert.True(t, StatusDraft.CanTransition(StatusArchived))
	assert.True(t, StatusActive.CanTransition(StatusClosed))
	assert.True(t, StatusActive.CanTransition(StatusArchived))
	assert.True(t, StatusClosed.CanTransition(StatusArchived))

	assert.False(t, StatusDraft.CanTransition(StatusClosed))
	assert.False(t, StatusActive.CanTransition(StatusDraft))
	assert.False(t, StatusClosed.CanTransition(StatusActive))
	assert.False(t, StatusArchived.CanTransition(StatusDraft))
	assert.False(t, StatusArchived.CanTransition(StatusActive))
}

func TestDefinitionBlobRoundTrip(t *testing.T) {
	def, err := survey.Definition{}.Append(survey.TypeSingleChoice)
	require.NoError(t, err)
	def, err = def.Append(survey.TypeShortText)
	require.NoError(t, err)
	def = def.Replace(def.Questions[1].WithConditional(survey.ConditionalLogic{
		Enabled:    true,
		QuestionID: def.Questions[0].ID,
		Operator:   survey.OpContains,
		Value:      "Yes",
	}))

	var s Survey
	require.NoError(t, s.SetDefinition(def))

	decoded, err := s.DecodeDefinition()
	require.NoError(t, err)
	assert.Equal(t, def, decoded)
}

func TestDecodeEmptyDefinition(t *testing.T) {
	var s Survey
	def, err := s.DecodeDefinition()
	require.NoError(t, err)
	assert.Equal(t, 0, def.Len())
}

func TestDecodeMalformedDefinition(t *testing.T) {
	s := Survey{Definition: []byte(`{"questions":`)}
	_, err := s.DecodeDefinition()
	assert.Error(t, err)
}
