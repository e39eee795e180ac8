// Package directory holds the administrative glue around the canvass core:
// team, turf, form and question management plus the assignment edges the
// authorization scope resolver reads.
package directory

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"

	"github.com/CanvassHQ/canvass-backend/internal/canvass"
	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validParam = regexp.MustCompile(`^[0-9a-zA-Z\- '"]+$`)

func valid(s string) bool {
	return s != "" && validParam.MatchString(s)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func errJSON(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{"error": true, "msg": msg})
}

func okJSON(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"msg": "OK", "data": data})
}

func storeError(w http.ResponseWriter, err error) {
	log.Printf("store failure: %v", err)
	errJSON(w, http.StatusInternalServerError, "Internal server error.")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errJSON(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// canvassers

func CanvasserListHandler(w http.ResponseWriter, r *http.Request) {
	var vols []canvass.Volunteer
	if err := db.DB.Find(&vols).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, vols)
}

func CanvasserLockHandler(w http.ResponseWriter, r *http.Request) {
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

	vol, _ := utils.GetVolunteerFromContext(r.Context())
	if input.ID == vol.ID {
		errJSON(w, http.StatusForbidden, "You can't lock yourself.")
		return
	}

	var target canvass.Volunteer
	if err := db.DB.First(&target, "id = ?", input.ID).Error; err != nil {
		storeError(w, err)
		return
	}
	if target.Admin {
		errJSON(w, http.StatusForbidden, "Permission denied.")
		return
	}

	if err := db.DB.Model(&target).Update("locked", true).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func CanvasserUnlockHandler(w http.ResponseWriter, r *http.Request) {
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
	if err := db.DB.Model(&canvass.Volunteer{}).Where("id = ?", input.ID).
		Update("locked", false).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

// teams

func TeamListHandler(w http.ResponseWriter, r *http.Request) {
	var teams []canvass.Team
	if err := db.DB.Find(&teams).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, teams)
}

func TeamCreateHandler(w http.ResponseWriter, r *http.Request) {
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
	team := canvass.Team{ID: uuid.NewString(), Name: input.Name}
	if err := db.DB.Create(&team).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, team)
}

func TeamDeleteHandler(w http.ResponseWriter, r *http.Request) {
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

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var team canvass.Team
		if err := tx.First(&team, "name = ?", input.Name).Error; err != nil {
			return err
		}
		// detach: drop the team's assignment edges with it
		if err := tx.Delete(&canvass.TeamMember{}, "team_id = ?", team.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.TurfTeam{}, "team_id = ?", team.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.FormTeam{}, "team_id = ?", team.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func TeamMembersListHandler(w http.ResponseWriter, r *http.Request) {
	teamName := r.URL.Query().Get("teamName")
	if !valid(teamName) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'teamName'.")
		return
	}
	var vols []canvass.Volunteer
	if err := db.DB.Raw(`
		SELECT v.* FROM canvass.volunteers v
		JOIN canvass.team_members tm ON tm.volunteer_id = v.id
		JOIN canvass.teams t ON t.id = tm.team_id
		WHERE t.name = ?`, teamName).Scan(&vols).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, vols)
}

func TeamMembersAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamName string `json:"teamName"`
		CID      string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.TeamName) || !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'teamName' or 'cId'.")
		return
	}
	var team canvass.Team
	if err := db.DB.First(&team, "name = ?", input.TeamName).Error; err != nil {
		storeError(w, err)
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.TeamMember{TeamID: team.ID, VolunteerID: input.CID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func TeamMembersRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamName string `json:"teamName"`
		CID      string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.TeamName) || !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'teamName' or 'cId'.")
		return
	}
	if err := db.DB.Exec(`
		DELETE FROM canvass.team_members tm
		USING canvass.teams t
		WHERE t.id = tm.team_id AND t.name = ? AND tm.volunteer_id = ?`,
		input.TeamName, input.CID).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}
