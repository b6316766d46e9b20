package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roamly/roamly-admin/db"
	"github.com/roamly/roamly-admin/models"
	"github.com/roamly/roamly-admin/survey"
)

// The question endpoints all follow the same shape: load the owned survey,
// apply one pure engine operation to the decoded definition, and persist the
// result wholesale. The operations themselves live in the survey package and
// never touch storage.

func saveDefinition(w http.ResponseWriter, s *models.Survey, def survey.Definition) {
	if err := s.SetDefinition(def); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Save(s).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func AppendQuestion(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	var input struct {
		Type survey.QuestionType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def, err := s.DecodeDefinition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	next, err := def.Append(input.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	saveDefinition(w, s, next)
}

func DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	def, err := s.DecodeDefinition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	saveDefinition(w, s, def.Delete(mux.Vars(r)["questionID"]))
}

func DuplicateQuestion(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	def, err := s.DecodeDefinition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	saveDefinition(w, s, def.Duplicate(mux.Vars(r)["questionID"]))
}

// ReorderQuestions applies one drag gesture: remove at source, reinsert at
// target, renumber. Conditional rules are left untouched even when the move
// makes one forward-referencing; the evaluator treats such rules as
// always-false and StaleRules lets the editor warn.
func ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	var input struct {
		Source int `json:"source"`
		Target int `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def, err := s.DecodeDefinition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	saveDefinition(w, s, def.Move(input.Source, input.Target))
}
