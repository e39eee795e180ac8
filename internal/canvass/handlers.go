package canvass

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
)

// PokeHandler is the unauthenticated store liveness probe.
func PokeHandler(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := db.DB.WithContext(r.Context()).Raw("SELECT 1").Scan(&one).Error; err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "OK"})
}

// HelloHandler reports the caller's assignment scope. The very first
// volunteer to ever say hello gets promoted to admin so a fresh install is
// administrable.
func HelloHandler(w http.ResponseWriter, r *http.Request) {
	vol, ok := utils.GetVolunteerFromContext(r.Context())
	if !ok {
		errJSON(w, http.StatusUnauthorized, "Missing volunteer identity.")
		return
	}

	promoted, err := promoteFirstAdmin(r.Context(), vol.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if promoted {
		vol.Admin = true
	}

	ass, err := VolunteerAssignments(r.Context(), vol.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	msg := "Awaiting assignment"
	if ass.Ready {
		msg = "You are assigned turf and ready to canvass!"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"msg": msg,
		"data": map[string]interface{}{
			"ready": ass.Ready,
			"admin": vol.Admin,
			"turf":  ass.Turf,
			"teams": ass.Teams,
			"forms": ass.Forms,
		},
	})
}

func PeopleByPositionHandler(w http.ResponseWriter, r *http.Request) {
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if lonErr != nil || latErr != nil || !isFinite(lon) || !isFinite(lat) {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameters 'longitude' or 'latitude'.")
		return
	}
	visitsAndPeople(w, r, "", lon, lat)
}

func PeopleByAddressHandler(w http.ResponseWriter, r *http.Request) {
	aID := r.URL.Query().Get("aId")
	if aID == "" {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'aId'.")
		return
	}
	visitsAndPeople(w, r, aID, 0, 0)
}

// visitsAndPeople resolves scope, builds the traversal specification from
// the caller's query parameters, and runs it under the escalation
// controller.
func visitsAndPeople(w http.ResponseWriter, r *http.Request, targetAddressID string, lon, lat float64) {
	vol, ok := utils.GetVolunteerFromContext(r.Context())
	if !ok {
		errJSON(w, http.StatusUnauthorized, "Missing volunteer identity.")
		return
	}

	qv := r.URL.Query()
	formID := qv.Get("formId")

	// Non-admins always scope reads to a form so what's already been
	// interacted with can be filtered.
	if !vol.Admin && formID == "" {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'formId'.")
		return
	}

	limit, _ := strconv.Atoi(qv.Get("limit"))
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	radius, _ := strconv.ParseFloat(qv.Get("dist"), 64)
	if radius <= 0 {
		radius = cfg.DefaultRadius
	}

	filterKey := qv.Get("filter_key")
	filterVal := qv.Get("filter_val")
	// no value? no key
	if filterVal == "" {
		filterKey = ""
	}

	// Admins browsing raw data see addresses with nobody home; a filter
	// removes that.
	emptyAddrs := vol.Admin && filterKey == ""

	ass, err := VolunteerAssignments(r.Context(), vol.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	q := ListQuery{
		VolunteerID:        vol.ID,
		Admin:              vol.Admin,
		Autoturf:           vol.Autoturf,
		TurfIDs:            ass.TurfIDs(),
		VolunteerLongitude: vol.Longitude,
		VolunteerLatitude:  vol.Latitude,
		AddressID:          targetAddressID,
		Longitude:          lon,
		Latitude:           lat,
		Radius:             radius,
		Limit:              limit,
		FormID:             formID,
		FilterKey:          filterKey,
		FilterValue:        filterVal,
		ExcludeVisited:     qv.Get("filter_visited") != "",
		EmptyAddrs:         emptyAddrs,
		AutoturfRadius:     cfg.AutoturfRadius,
	}

	groups, err := searchWithEscalation(r.Context(), q, listAddresses)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func VisitUpdateHandler(w http.ResponseWriter, r *http.Request) {
	recordVisitFlow(w, r, false)
}

// VisitAddHandler is visit/update plus on-the-fly person creation, gated
// by config.
func VisitAddHandler(w http.ResponseWriter, r *http.Request) {
	if !cfg.AllowAddNewPerson {
		errJSON(w, http.StatusForbidden, "Permission denied.")
		return
	}
	recordVisitFlow(w, r, true)
}

func recordVisitFlow(w http.ResponseWriter, r *http.Request, addNewPerson bool) {
	vol, ok := utils.GetVolunteerFromContext(r.Context())
	if !ok {
		errJSON(w, http.StatusUnauthorized, "Missing volunteer identity.")
		return
	}

	var sub VisitSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		errJSON(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	sub.AddNewPerson = addNewPerson

	if err := sub.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if addNewPerson && sub.PersonID == "" {
		errJSON(w, http.StatusBadRequest, "Invalid value to parameter 'personId'.")
		return
	}

	ass, err := VolunteerAssignments(r.Context(), vol.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ass.Ready {
		errJSON(w, http.StatusForbidden, "Volunteer is not assigned.")
		return
	}
	if !ass.HasForm(sub.FormID) {
		errJSON(w, http.StatusForbidden, "You are not assigned this form.")
		return
	}

	visit, err := RecordVisit(r.Context(), vol, ass.TurfIDs(), sub, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"msg": "OK", "id": visit.ID})
}
