package canvass

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// visitStatuses is the prior-visit status filter. The clients have always
// been served the full enum, so this admits everything; it exists so a
// narrower policy can be configured without touching the traversal shape.
var visitStatuses = pq.Int64Array{StatusNotHome, StatusHome, StatusNotInterested, StatusMoved}

// ListQuery is the traversal specification for one read. Each field
// toggles a clause independently; compilation to SQL happens only in the
// *SQL methods so the branching policy stays separate from store syntax.
type ListQuery struct {
	VolunteerID string
	Admin       bool
	Autoturf    bool
	TurfIDs     []string

	// Volunteer location, used only by the autoturf disjunction.
	VolunteerLongitude float64
	VolunteerLatitude  float64

	// Either a target address or a center point with radius/limit.
	AddressID string
	Longitude float64
	Latitude  float64
	Radius    float64
	Limit     int

	FormID         string
	FilterKey      string
	FilterValue    string
	ExcludeVisited bool

	// EmptyAddrs keeps addresses with no residents and no units in the
	// result (admins browsing raw data). A filter always disables it.
	EmptyAddrs bool

	AutoturfRadius float64
}

const geoPoint = "ST_MakePoint(%s, %s)::geography"

func addrPoint() string {
	return fmt.Sprintf(geoPoint, "a.longitude", "a.latitude")
}

// addressSQL compiles the candidate-address query: scope containment,
// optional autoturf disjunction, and either a targeted id match or a
// radius-bounded nearest-first scan.
func (q ListQuery) addressSQL() (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if !q.Admin {
		scope := fmt.Sprintf(`EXISTS (
			SELECT 1 FROM canvass.turf_addresses ta
			WHERE ta.address_id = a.id AND ta.turf_id = ANY($%d))`, argIdx)
		args = append(args, pq.Array(q.TurfIDs))
		argIdx++

		if q.Autoturf {
			scope = fmt.Sprintf(`(%s OR ST_DWithin(%s, %s, $%d))`,
				scope, addrPoint(),
				fmt.Sprintf(geoPoint, fmt.Sprintf("$%d", argIdx), fmt.Sprintf("$%d", argIdx+1)),
				argIdx+2)
			args = append(args, q.VolunteerLongitude, q.VolunteerLatitude, q.AutoturfRadius)
			argIdx += 3
		}
		conditions = append(conditions, scope)
	}

	tail := ""
	if q.AddressID != "" {
		// A targeted read ignores radius entirely.
		conditions = append(conditions, fmt.Sprintf("a.id = $%d", argIdx))
		args = append(args, q.AddressID)
		argIdx++
	} else {
		center := fmt.Sprintf(geoPoint, fmt.Sprintf("$%d", argIdx), fmt.Sprintf("$%d", argIdx+1))
		conditions = append(conditions, fmt.Sprintf("ST_DWithin(%s, %s, $%d)", addrPoint(), center, argIdx+2))
		args = append(args, q.Longitude, q.Latitude, q.Radius)
		argIdx += 3

		center = fmt.Sprintf(geoPoint, fmt.Sprintf("$%d", argIdx), fmt.Sprintf("$%d", argIdx+1))
		tail = fmt.Sprintf(" ORDER BY ST_Distance(%s, %s) ASC LIMIT $%d", addrPoint(), center, argIdx+2)
		args = append(args, q.Longitude, q.Latitude, q.Limit)
		argIdx += 3
	}

	query := fmt.Sprintf(`SELECT a.id, a.street, a.city, a.state, a.zip, a.longitude, a.latitude, a.updated
		FROM canvass.addresses a
		WHERE %s%s`, strings.Join(conditions, " AND "), tail)
	return query, args
}

// residentsSQL compiles the current-resident query for a candidate address
// set. The attribute filter is computed per resident so the shaper can
// keep or drop whole unit/address groups; the visited exclusion removes
// residents outright.
func (q ListQuery) residentsSQL(addressIDs []string) (string, []interface{}) {
	args := []interface{}{pq.Array(addressIDs)}
	argIdx := 2

	matchCol := "true AS matches_filter"
	if q.FilterKey != "" {
		matchCol = fmt.Sprintf(`EXISTS (
			SELECT 1 FROM canvass.person_attributes pa
			WHERE pa.person_id = p.id AND pa.current
			AND pa.attribute_id = $%d AND pa.value = $%d) AS matches_filter`, argIdx, argIdx+1)
		args = append(args, q.FilterKey, q.FilterValue)
		argIdx += 2
	}

	visitedCond := ""
	if q.ExcludeVisited && q.FormID != "" {
		visitedCond = fmt.Sprintf(` AND NOT EXISTS (
			SELECT 1 FROM canvass.visits v
			WHERE v.person_id = p.id AND v.form_id = $%d)`, argIdx)
		args = append(args, q.FormID)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT r.address_id, r.unit_id, p.id, p.name, %s
		FROM canvass.residencies r
		JOIN canvass.persons p ON p.id = r.person_id
		WHERE r.current AND r.address_id = ANY($1)%s`, matchCol, visitedCond)
	return query, args
}
