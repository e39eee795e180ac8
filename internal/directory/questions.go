package directory

import (
	"net/http"

	"github.com/CanvassHQ/canvass-backend/internal/canvass"
	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func QuestionGetHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !valid(key) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key'.")
		return
	}

	var q canvass.Question
	if err := db.DB.First(&q, "key = ?", key).Error; err != nil {
		storeError(w, err)
		return
	}

	var author canvass.Volunteer
	_ = db.DB.First(&author, "id = ?", q.AuthorID).Error

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":       q.Key,
		"label":     q.Label,
		"type":      q.Type,
		"author_id": q.AuthorID,
		"author":    author.Name,
	})
}

func QuestionListHandler(w http.ResponseWriter, r *http.Request) {
	var questions []canvass.Question
	if err := db.DB.Find(&questions).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, questions)
}

func QuestionCreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key   string `json:"key"`
		Label string `json:"label"`
		Type  string `json:"type"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.Key) || !valid(input.Label) || !valid(input.Type) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key' or 'label' or 'type'.")
		return
	}

	vol, _ := utils.GetVolunteerFromContext(r.Context())
	q := canvass.Question{
		Key:      input.Key,
		Label:    input.Label,
		Type:     input.Type,
		AuthorID: vol.ID,
	}
	if err := db.DB.Create(&q).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, q)
}

func QuestionDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.Key) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key'.")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&canvass.QuestionForm{}, "question_key = ?", input.Key).Error; err != nil {
			return err
		}
		return tx.Delete(&canvass.Question{}, "key = ?", input.Key).Error
	})
	if err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func QuestionAssignedListHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !valid(key) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key'.")
		return
	}
	var forms []canvass.Form
	if err := db.DB.Raw(`
		SELECT f.* FROM canvass.forms f
		JOIN canvass.question_forms qf ON qf.form_id = f.id
		WHERE qf.question_key = ?`, key).Scan(&forms).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, forms)
}

func QuestionAssignedAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key string `json:"key"`
		FID string `json:"fId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.Key) || !valid(input.FID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key' or 'fId'.")
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.QuestionForm{QuestionKey: input.Key, FormID: input.FID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func QuestionAssignedRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key string `json:"key"`
		FID string `json:"fId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.Key) || !valid(input.FID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'key' or 'fId'.")
		return
	}
	if err := db.DB.Delete(&canvass.QuestionForm{},
		"question_key = ? AND form_id = ?", input.Key, input.FID).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}
