package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/roamly/roamly-admin/auth"
	"github.com/roamly/roamly-admin/db"
	"github.com/roamly/roamly-admin/models"
	"github.com/roamly/roamly-admin/survey"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// loadOwnedSurvey fetches the survey in the route for the authenticated
// editor, writing the error response itself when it fails.
func loadOwnedSurvey(w http.ResponseWriter, r *http.Request) (*models.Survey, bool) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	id := mux.Vars(r)["id"]
	var s models.Survey
	if err := db.DB.Where("user_id = ?", userID).First(&s, id).Error; err != nil {
		http.Error(w, "Survey not found", http.StatusNotFound)
		return nil, false
	}
	return &s, true
}

// uniqueSlug mints a slug from the title, suffixing a counter on collision so
// published URLs stay unique.
func uniqueSlug(title string) string {
	base := models.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		var count int64
		db.DB.Model(&models.Survey{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func CreateSurvey(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := models.Survey{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Slug:        uniqueSlug(input.Title),
		Status:      models.StatusDraft,
	}
	if err := s.SetDefinition(survey.Definition{Questions: []survey.SurveyQuestion{}}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.Create(&s).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, s)
}

func ListSurveys(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var surveys []models.Survey
	if err := db.DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&surveys).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

func GetSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSurvey is the save: the request carries the editor's entire draft and
// replaces the persisted survey wholesale. There is no per-question endpoint
// for partial merges; last write wins at document granularity.
func UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	var input struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Definition  json.RawMessage `json:"definition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Title = input.Title
	s.Description = input.Description
	if input.Definition != nil {
		var def survey.Definition
		if err := json.Unmarshal(input.Definition, &def); err != nil {
			http.Error(w, "Invalid definition: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.SetDefinition(def); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := db.DB.Save(s).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}
	if err := db.DB.Delete(s).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateSurvey copies a survey into a fresh draft. Question ids are
// reminted and conditional references remapped, so ids stay globally unique
// across surveys.
func DuplicateSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}

	def, err := s.DecodeDefinition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	copyTitle := "Copy of " + s.Title
	dup := models.Survey{
		UserID:      s.UserID,
		Title:       copyTitle,
		Description: s.Description,
		Slug:        uniqueSlug(copyTitle),
		Status:      models.StatusDraft,
	}
	if err := dup.SetDefinition(def.Clone()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.Create(&dup).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

func transitionSurvey(w http.ResponseWriter, r *http.Request, next models.SurveyStatus) {
	s, ok := loadOwnedSurvey(w, r)
	if !ok {
		return
	}
	if !s.Status.CanTransition(next) {
		http.Error(w, fmt.Sprintf("cannot transition from %s to %s", s.Status, next), http.StatusConflict)
		return
	}
	s.Status = next
	if err := db.DB.Save(s).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func PublishSurvey(w http.ResponseWriter, r *http.Request) {
	transitionSurvey(w, r, models.StatusActive)
}

func CloseSurvey(w http.ResponseWriter, r *http.Request) {
	transitionSurvey(w, r, models.StatusClosed)
}

func ArchiveSurvey(w http.ResponseWriter, r *http.Request) {
	transitionSurvey(w, r, models.StatusArchived)
}

// PublicSurvey serves a published definition to the survey-taking runtime.
// Only active surveys are answerable; any other status reads as not found.
func PublicSurvey(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var s models.Survey
	err := db.DB.Where("slug = ? AND status = ?", slug, models.StatusActive).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Survey not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":        s.Slug,
		"title":       s.Title,
		"description": s.Description,
		"definition":  s.Definition,
	})
}

// EvaluateVisibility applies each question's conditional rule to the
// accumulated answers and returns, in order, the questions to present.
func EvaluateVisibility(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var s models.Survey
	if err := db.DB.Where("slug = ? AND status = ?", slug, models.StatusActive).First(&s).Error; err != nil {
		http.Error(w, "Survey not found", http.StatusNotFound)
		return
	}

	var input struct {
		Answers survey.Answers `json:"answers"`
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

	writeJSON(w, http.StatusOK, map[string]any{
		"questions": def.VisibleQuestions(input.Answers),
	})
}
