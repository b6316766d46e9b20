package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/roamly/roamly-admin/survey"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex"`
	Name         string
	GoogleID     *string `gorm:"uniqueIndex"`
	Picture      string
	PasswordHash string `json:"-"`
	Surveys      []Survey
}

// SurveyStatus is the survey lifecycle state. Only the public runtime cares
// about it; the editor works on a survey in any state.
type SurveyStatus string

const (
	StatusDraft    SurveyStatus = "draft"
	StatusActive   SurveyStatus = "active"
	StatusClosed   SurveyStatus = "closed"
	StatusArchived SurveyStatus = "archived"
)

var transitions = map[SurveyStatus][]SurveyStatus{
	StatusDraft:  {StatusActive, StatusArchived},
	StatusActive: {StatusClosed, StatusArchived},
	StatusClosed: {StatusArchived},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s SurveyStatus) CanTransition(next SurveyStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Survey struct {
	gorm.Model
	UserID      uint
	Title       string
	Slug        string         `gorm:"uniqueIndex"`
	Description string
	Status      SurveyStatus   `gorm:"type:varchar(16);default:draft"`
	Definition  datatypes.JSON
}

// DecodeDefinition unmarshals the stored definition blob. The saved document
// is trusted: order and reference invariants were established by the editor
// at save time and are not re-checked here.
func (s *Survey) DecodeDefinition() (survey.Definition, error) {
	var def survey.Definition
	if len(s.Definition) == 0 {
		return def, nil
	}
	if err := json.Unmarshal(s.Definition, &def); err != nil {
		return survey.Definition{}, fmt.Errorf("decode definition of survey %d: %w", s.ID, err)
	}
	return def, nil
}

// SetDefinition replaces the stored blob wholesale with the given definition.
func (s *Survey) SetDefinition(def survey.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition of survey %d: %w", s.ID, err)
	}
	s.Definition = datatypes.JSON(data)
	return nil
}

// Slugify derives a URL-safe handle from a title: lowercase, alphanumeric
// runs joined by single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return "survey"
	}
	return b.String()
}
