package canvass

import (
	"context"
	"fmt"

	"github.com/CanvassHQ/canvass-backend/internal/db"
)

// Assignments is a volunteer's effective authorization scope: the union of
// direct and team-derived turf and form assignments. Ready means the
// volunteer may canvass (and submit visits).
type Assignments struct {
	Ready bool   `json:"ready"`
	Turf  []Turf `json:"turf"`
	Teams []Team `json:"teams"`
	Forms []Form `json:"forms"`
}

// TurfIDs returns the scoping set the query composer constrains reads to.
func (a Assignments) TurfIDs() []string {
	ids := make([]string, 0, len(a.Turf))
	for _, t := range a.Turf {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasForm reports whether the volunteer is assigned the given form.
func (a Assignments) HasForm(formID string) bool {
	for _, f := range a.Forms {
		if f.ID == formID {
			return true
		}
	}
	return false
}

// promoteFirstAdmin makes the caller an admin iff no admin exists yet. The
// conditional update is a single statement so two concurrent first logins
// cannot both promote.
func promoteFirstAdmin(ctx context.Context, volunteerID string) (bool, error) {
	res := db.DB.WithContext(ctx).Exec(`
		UPDATE canvass.volunteers SET admin = true
		WHERE id = ?
		AND NOT EXISTS (SELECT 1 FROM canvass.volunteers WHERE admin)
	`, volunteerID)
	if res.Error != nil {
		return false, fmt.Errorf("first-admin bootstrap: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// VolunteerAssignments resolves the authorization scope. It is recomputed
// on every request rather than cached, so administrative changes take
// effect immediately.
func VolunteerAssignments(ctx context.Context, volunteerID string) (Assignments, error) {
	var ass Assignments
	d := db.DB.WithContext(ctx)

	var directTurf []Turf
	if err := d.Raw(`
		SELECT t.* FROM canvass.turfs t
		JOIN canvass.turf_volunteers tv ON tv.turf_id = t.id
		WHERE tv.volunteer_id = ?
	`, volunteerID).Scan(&directTurf).Error; err != nil {
		return ass, fmt.Errorf("direct turf assignment: %w", err)
	}

	var teamTurf []Turf
	if err := d.Raw(`
		SELECT DISTINCT t.* FROM canvass.turfs t
		JOIN canvass.turf_teams tt ON tt.turf_id = t.id
		JOIN canvass.team_members tm ON tm.team_id = tt.team_id
		WHERE tm.volunteer_id = ?
	`, volunteerID).Scan(&teamTurf).Error; err != nil {
		return ass, fmt.Errorf("team turf assignment: %w", err)
	}

	if err := d.Raw(`
		SELECT DISTINCT te.* FROM canvass.teams te
		JOIN canvass.team_members tm ON tm.team_id = te.id
		WHERE tm.volunteer_id = ?
	`, volunteerID).Scan(&ass.Teams).Error; err != nil {
		return ass, fmt.Errorf("team membership: %w", err)
	}

	var directForms []Form
	if err := d.Raw(`
		SELECT f.* FROM canvass.forms f
		JOIN canvass.form_volunteers fv ON fv.form_id = f.id
		WHERE fv.volunteer_id = ?
	`, volunteerID).Scan(&directForms).Error; err != nil {
		return ass, fmt.Errorf("direct form assignment: %w", err)
	}

	var teamForms []Form
	if err := d.Raw(`
		SELECT DISTINCT f.* FROM canvass.forms f
		JOIN canvass.form_teams ft ON ft.form_id = f.id
		JOIN canvass.team_members tm ON tm.team_id = ft.team_id
		WHERE tm.volunteer_id = ?
	`, volunteerID).Scan(&teamForms).Error; err != nil {
		return ass, fmt.Errorf("team form assignment: %w", err)
	}

	// Someone can be assigned both directly and via a team; dedupe so
	// resolving twice yields identical sets.
	ass.Turf = dedupeTurf(append(directTurf, teamTurf...))
	ass.Forms = dedupeForms(append(directForms, teamForms...))

	ass.Ready = len(ass.Turf) > 0 && len(ass.Forms) > 0
	return ass, nil
}

func dedupeTurf(in []Turf) []Turf {
	seen := map[string]struct{}{}
	out := make([]Turf, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func dedupeForms(in []Form) []Form {
	seen := map[string]struct{}{}
	out := make([]Form, 0, len(in))
	for _, f := range in {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}
