package canvass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CanvassHQ/canvass-backend/internal/utils"
)

// These cover the request rejection paths that never reach the store.

func requestAs(method, target, body string, vol utils.VolunteerData) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), utils.ContextVolunteerKey, vol)
	return r.WithContext(ctx)
}

func TestPeopleByPosition_RejectsBadCoordinates(t *testing.T) {
	for _, target := range []string{
		"/get/byposition",
		"/get/byposition?longitude=abc&latitude=39.7",
		"/get/byposition?longitude=-86.1",
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, target, nil)
		PeopleByPositionHandler(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestPeopleByAddress_RequiresAddressID(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/get/byaddress", nil)
	PeopleByAddressHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPeopleRead_RequiresIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/get/byaddress?aId=addr-1", nil)
	PeopleByAddressHandler(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestPeopleRead_VolunteerNeedsForm(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestAs(http.MethodGet, "/get/byaddress?aId=addr-1", "", utils.VolunteerData{ID: "vol-1"})
	PeopleByAddressHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without formId, got %d", w.Code)
	}
}

func TestVisitUpdate_RejectsBadBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestAs(http.MethodPost, "/visit/update", "{not json", utils.VolunteerData{ID: "vol-1"})
	VisitUpdateHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVisitUpdate_RejectsInvalidSubmission(t *testing.T) {
	// Home status with no attrs fails validation before any store access.
	body := `{"deviceId":"d1","addressId":"a1","formId":"f1","status":1,"personId":"p1"}`
	w := httptest.NewRecorder()
	r := requestAs(http.MethodPost, "/visit/update", body, utils.VolunteerData{ID: "vol-1"})
	VisitUpdateHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVisitAdd_GatedByConfig(t *testing.T) {
	old := cfg
	cfg.AllowAddNewPerson = false
	defer func() { cfg = old }()

	w := httptest.NewRecorder()
	r := requestAs(http.MethodPost, "/visit/add", `{}`, utils.VolunteerData{ID: "vol-1"})
	VisitAddHandler(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
