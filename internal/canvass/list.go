package canvass

import (
	"context"
	"fmt"
	"time"

	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/lib/pq"
)

// AddressOut mirrors the address projection the clients expect.
type AddressOut struct {
	ID        string    `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Updated   time.Time `json:"updated"`
}

type residentRow struct {
	AddressID     string
	UnitID        *string
	ID            string
	Name          string
	MatchesFilter bool
}

type attrRow struct {
	PersonID string
	ID       string
	Name     string
	Value    string
}

// listAddresses runs one traversal attempt: the candidate-address query,
// then batched loads of units, residents, current attributes, and prior
// visits, stitched together by the shaper.
func listAddresses(ctx context.Context, q ListQuery) ([]AddressGroup, error) {
	d := db.DB.WithContext(ctx)

	query, args := q.addressSQL()
	var addrs []AddressOut
	if err := d.Raw(query, args...).Scan(&addrs).Error; err != nil {
		return nil, fmt.Errorf("address scan: %w", err)
	}
	if len(addrs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ids = append(ids, a.ID)
	}

	var units []Unit
	if err := d.Raw(`SELECT * FROM canvass.units WHERE address_id = ANY($1)`,
		pq.Array(ids)).Scan(&units).Error; err != nil {
		return nil, fmt.Errorf("unit scan: %w", err)
	}

	query, args = q.residentsSQL(ids)
	var residents []residentRow
	if err := d.Raw(query, args...).Scan(&residents).Error; err != nil {
		return nil, fmt.Errorf("resident scan: %w", err)
	}

	var attrs []attrRow
	if len(residents) > 0 {
		personIDs := make([]string, 0, len(residents))
		for _, r := range residents {
			personIDs = append(personIDs, r.ID)
		}
		if err := d.Raw(`
			SELECT pa.person_id AS person_id, at.id AS id, at.name AS name, pa.value AS value
			FROM canvass.person_attributes pa
			JOIN canvass.attributes at ON at.id = pa.attribute_id
			WHERE pa.current AND pa.person_id = ANY($1)`,
			pq.Array(personIDs)).Scan(&attrs).Error; err != nil {
			return nil, fmt.Errorf("attribute scan: %w", err)
		}
	}

	var visits []Visit
	if q.FormID != "" {
		if err := d.Raw(`
			SELECT * FROM canvass.visits
			WHERE form_id = $1 AND address_id = ANY($2) AND status = ANY($3)`,
			q.FormID, pq.Array(ids), visitStatuses).Scan(&visits).Error; err != nil {
			return nil, fmt.Errorf("visit scan: %w", err)
		}
	}

	return shapeGroups(q, addrs, units, residents, attrs, visits), nil
}
