package directory

import (
	"net/http"

	"github.com/CanvassHQ/canvass-backend/internal/canvass"
	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func FormGetHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'id'.")
		return
	}

	var form canvass.Form
	if err := db.DB.First(&form, "id = ?", id).Error; err != nil {
		storeError(w, err)
		return
	}

	var questions []canvass.Question
	if err := db.DB.Raw(`
		SELECT q.* FROM canvass.questions q
		JOIN canvass.question_forms qf ON qf.question_key = q.key
		WHERE qf.form_id = ?`, id).Scan(&questions).Error; err != nil {
		storeError(w, err)
		return
	}

	var author canvass.Volunteer
	_ = db.DB.First(&author, "id = ?", form.AuthorID).Error

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        form.ID,
		"name":      form.Name,
		"version":   form.Version,
		"author_id": form.AuthorID,
		"author":    author.Name,
		"questions": questions,
	})
}

func FormListHandler(w http.ResponseWriter, r *http.Request) {
	var forms []canvass.Form
	if err := db.DB.Find(&forms).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, forms)
}

func FormCreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.Name) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'name'.")
		return
	}

	vol, _ := utils.GetVolunteerFromContext(r.Context())
	form := canvass.Form{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Version:  1,
		AuthorID: vol.ID,
	}
	if err := db.DB.Create(&form).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, form)
}

func FormDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.ID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'id'.")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&canvass.FormTeam{}, "form_id = ?", input.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.FormVolunteer{}, "form_id = ?", input.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.QuestionForm{}, "form_id = ?", input.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&canvass.Form{}, "id = ?", input.ID).Error
	})
	if err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func FormAssignedTeamListHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !valid(id) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'id'.")
		return
	}
	var teams []canvass.Team
	if err := db.DB.Raw(`
		SELECT t.* FROM canvass.teams t
		JOIN canvass.form_teams ft ON ft.team_id = t.id
		WHERE ft.form_id = ?`, id).Scan(&teams).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, teams)
}

func FormAssignedTeamAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FID      string `json:"fId"`
		TeamName string `json:"teamName"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.FID) || !valid(input.TeamName) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'fId' or 'teamName'.")
		return
	}
	var team canvass.Team
	if err := db.DB.First(&team, "name = ?", input.TeamName).Error; err != nil {
		storeError(w, err)
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.FormTeam{FormID: input.FID, TeamID: team.ID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func FormAssignedTeamRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FID      string `json:"fId"`
		TeamName string `json:"teamName"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.FID) || !valid(input.TeamName) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'fId' or 'teamName'.")
		return
	}
	if err := db.DB.Exec(`
		DELETE FROM canvass.form_teams ft
		USING canvass.teams te
		WHERE te.id = ft.team_id AND ft.form_id = ? AND te.name = ?`,
		input.FID, input.TeamName).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func FormAssignedCanvasserListHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !valid(id) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'id'.")
		return
	}
	var vols []canvass.Volunteer
	if err := db.DB.Raw(`
		SELECT v.* FROM canvass.volunteers v
		JOIN canvass.form_volunteers fv ON fv.volunteer_id = v.id
		WHERE fv.form_id = ?`, id).Scan(&vols).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, vols)
}

func FormAssignedCanvasserAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FID string `json:"fId"`
		CID string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.FID) || !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'fId' or 'cId'.")
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.FormVolunteer{FormID: input.FID, VolunteerID: input.CID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func FormAssignedCanvasserRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FID string `json:"fId"`
		CID string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.FID) || !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'fId' or 'cId'.")
		return
	}
	if err := db.DB.Delete(&canvass.FormVolunteer{},
		"form_id = ? AND volunteer_id = ?", input.FID, input.CID).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func DeviceListHandler(w http.ResponseWriter, r *http.Request) {
	var devices []canvass.Device
	if err := db.DB.Find(&devices).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, devices)
}
