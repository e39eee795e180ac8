package directory

import (
	"net/http"

	"github.com/CanvassHQ/canvass-backend/internal/canvass"
	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TurfListHandler(w http.ResponseWriter, r *http.Request) {
	var turfs []canvass.Turf
	if err := db.DB.Find(&turfs).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, turfs)
}

func TurfCreateHandler(w http.ResponseWriter, r *http.Request) {
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
	turf := canvass.Turf{ID: uuid.NewString(), Name: input.Name}
	if err := db.DB.Create(&turf).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, turf)
}

func TurfDeleteHandler(w http.ResponseWriter, r *http.Request) {
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
		var turf canvass.Turf
		if err := tx.First(&turf, "name = ?", input.Name).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.TurfAddress{}, "turf_id = ?", turf.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.TurfVolunteer{}, "turf_id = ?", turf.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&canvass.TurfTeam{}, "turf_id = ?", turf.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&turf).Error
	})
	if err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func turfByName(w http.ResponseWriter, name string) (canvass.Turf, bool) {
	var turf canvass.Turf
	if !valid(name) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'turfName'.")
		return turf, false
	}
	if err := db.DB.First(&turf, "name = ?", name).Error; err != nil {
		storeError(w, err)
		return turf, false
	}
	return turf, true
}

func TurfAssignedTeamListHandler(w http.ResponseWriter, r *http.Request) {
	turf, ok := turfByName(w, r.URL.Query().Get("turfName"))
	if !ok {
		return
	}
	var teams []canvass.Team
	if err := db.DB.Raw(`
		SELECT t.* FROM canvass.teams t
		JOIN canvass.turf_teams tt ON tt.team_id = t.id
		WHERE tt.turf_id = ?`, turf.ID).Scan(&teams).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, teams)
}

func TurfAssignedTeamAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TurfName string `json:"turfName"`
		TeamName string `json:"teamName"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	turf, ok := turfByName(w, input.TurfName)
	if !ok {
		return
	}
	if !valid(input.TeamName) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'teamName'.")
		return
	}
	var team canvass.Team
	if err := db.DB.First(&team, "name = ?", input.TeamName).Error; err != nil {
		storeError(w, err)
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.TurfTeam{TurfID: turf.ID, TeamID: team.ID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func TurfAssignedTeamRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TurfName string `json:"turfName"`
		TeamName string `json:"teamName"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.TurfName) || !valid(input.TeamName) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'turfName' or 'teamName'.")
		return
	}
	if err := db.DB.Exec(`
		DELETE FROM canvass.turf_teams tt
		USING canvass.turfs tu, canvass.teams te
		WHERE tu.id = tt.turf_id AND te.id = tt.team_id
		AND tu.name = ? AND te.name = ?`, input.TurfName, input.TeamName).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func TurfAssignedCanvasserListHandler(w http.ResponseWriter, r *http.Request) {
	turf, ok := turfByName(w, r.URL.Query().Get("turfName"))
	if !ok {
		return
	}
	var vols []canvass.Volunteer
	if err := db.DB.Raw(`
		SELECT v.* FROM canvass.volunteers v
		JOIN canvass.turf_volunteers tv ON tv.volunteer_id = v.id
		WHERE tv.turf_id = ?`, turf.ID).Scan(&vols).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, vols)
}

func TurfAssignedCanvasserAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TurfName string `json:"turfName"`
		CID      string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	turf, ok := turfByName(w, input.TurfName)
	if !ok {
		return
	}
	if !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'cId'.")
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.TurfVolunteer{TurfID: turf.ID, VolunteerID: input.CID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

func TurfAssignedCanvasserRemoveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TurfName string `json:"turfName"`
		CID      string `json:"cId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if !valid(input.TurfName) || !valid(input.CID) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'turfName' or 'cId'.")
		return
	}
	if err := db.DB.Exec(`
		DELETE FROM canvass.turf_volunteers tv
		USING canvass.turfs tu
		WHERE tu.id = tv.turf_id AND tu.name = ? AND tv.volunteer_id = ?`,
		input.TurfName, input.CID).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}

// TurfAssignedAddressAddHandler places an address inside a turf boundary.
// The graph import used to create these WITHIN edges offline; exposing it
// here lets admins manage turf membership without a reimport.
func TurfAssignedAddressAddHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TurfName  string `json:"turfName"`
		AddressID string `json:"addressId"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	turf, ok := turfByName(w, input.TurfName)
	if !ok {
		return
	}
	if input.AddressID == "" {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'addressId'.")
		return
	}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&canvass.TurfAddress{TurfID: turf.ID, AddressID: input.AddressID}).Error; err != nil {
		storeError(w, err)
		return
	}
	okJSON(w, nil)
}
