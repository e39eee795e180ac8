package canvass

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AttrValue is one submitted attribute answer.
type AttrValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// VisitSubmission is the write payload. AddNewPerson is set by the
// visit/add route, never by the client body.
type VisitSubmission struct {
	DeviceID  string      `json:"deviceId"`
	AddressID string      `json:"addressId"`
	Unit      string      `json:"unit"`
	FormID    string      `json:"formId"`
	Status    int         `json:"status"`
	Start     int64       `json:"start"`
	End       int64       `json:"end"`
	Longitude float64     `json:"longitude"`
	Latitude  float64     `json:"latitude"`
	PersonID  string      `json:"personId"`
	Attrs     []AttrValue `json:"attrs"`

	AddNewPerson bool `json:"-"`
}

// Validate runs every input check before any store access, so a rejected
// submission has no side effects.
func (s VisitSubmission) Validate() error {
	if s.DeviceID == "" {
		return fmt.Errorf("%w: missing 'deviceId'", ErrInvalidInput)
	}
	if s.AddressID == "" {
		return fmt.Errorf("%w: missing 'addressId'", ErrInvalidInput)
	}
	if s.FormID == "" {
		return fmt.Errorf("%w: missing 'formId'", ErrInvalidInput)
	}
	if s.Status < StatusNotHome || s.Status > StatusMoved {
		return fmt.Errorf("%w: invalid value to parameter 'status'", ErrInvalidInput)
	}
	if !isFinite(s.Longitude) || !isFinite(s.Latitude) {
		return fmt.Errorf("%w: invalid value to parameters 'longitude' or 'latitude'", ErrInvalidInput)
	}
	// personId required if they are home or no longer live there
	if (s.Status == StatusHome || s.Status == StatusMoved) && s.PersonID == "" {
		return fmt.Errorf("%w: invalid value to parameter 'personId'", ErrInvalidInput)
	}
	// attrs required if status is home
	if s.Status == StatusHome && len(s.Attrs) == 0 {
		return fmt.Errorf("%w: invalid value to parameter 'attrs'", ErrInvalidInput)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RecordVisit applies one validated submission as a single transaction:
// optional new-person creation, a write-time containment re-check, the
// visit row and its links, and the residency/attribute current-edge
// updates. Any missing referenced entity rolls the whole thing back as
// ErrUnprocessable.
func RecordVisit(ctx context.Context, vol utils.VolunteerData, turfIDs []string, sub VisitSubmission, cfg Config) (Visit, error) {
	var visit Visit

	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var addr Address
		if err := tx.First(&addr, "id = ?", sub.AddressID).Error; err != nil {
			return notFoundAs(err, "address")
		}

		var unitID *string
		if sub.Unit != "" {
			var unit Unit
			if err := tx.First(&unit, "address_id = ? AND name = ?", sub.AddressID, sub.Unit).Error; err != nil {
				return notFoundAs(err, "unit")
			}
			unitID = &unit.ID
		}

		if sub.AddNewPerson {
			var count int64
			if err := tx.Model(&Person{}).Where("id = ?", sub.PersonID).Count(&count).Error; err != nil {
				return fmt.Errorf("person lookup: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("%w: person already exists", ErrForbidden)
			}
			if err := tx.Create(&Person{ID: sub.PersonID}).Error; err != nil {
				return fmt.Errorf("create person: %w", err)
			}
			if err := tx.Create(&Residency{
				ID:        uuid.NewString(),
				PersonID:  sub.PersonID,
				AddressID: sub.AddressID,
				UnitID:    unitID,
				Current:   true,
				Updated:   time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("create residency: %w", err)
			}
		}

		// Scope can change between a client's read and this write, so the
		// containment rule is evaluated again here.
		if !vol.Admin {
			ok, err := addressInScope(tx, addr, turfIDs, vol, cfg)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: address is outside your assigned turf", ErrForbidden)
			}
		}

		var dev Device
		if err := tx.First(&dev, "unique_id = ?", sub.DeviceID).Error; err != nil {
			return notFoundAs(err, "device")
		}
		if dev.VolunteerID != vol.ID {
			return fmt.Errorf("%w: device volunteer mismatch", ErrUnprocessable)
		}

		var form Form
		if err := tx.First(&form, "id = ?", sub.FormID).Error; err != nil {
			return notFoundAs(err, "form")
		}

		var personID *string
		var residency Residency
		if sub.PersonID != "" {
			q := tx.Where("person_id = ? AND address_id = ? AND current", sub.PersonID, sub.AddressID)
			if unitID != nil {
				q = q.Where("unit_id = ?", *unitID)
			} else {
				q = q.Where("unit_id IS NULL")
			}
			if err := q.First(&residency).Error; err != nil {
				return notFoundAs(err, "residency")
			}
			personID = &sub.PersonID
		}

		visit = Visit{
			ID:          uuid.NewString(),
			DeviceID:    dev.UniqueID,
			VolunteerID: vol.ID,
			AddressID:   sub.AddressID,
			UnitID:      unitID,
			FormID:      form.ID,
			PersonID:    personID,
			Status:      sub.Status,
			Start:       sub.Start,
			End:         sub.End,
			Uploaded:    time.Now(),
			Longitude:   sub.Longitude,
			Latitude:    sub.Latitude,
		}
		if err := tx.Create(&visit).Error; err != nil {
			return fmt.Errorf("create visit: %w", err)
		}

		if personID == nil {
			return nil
		}

		if sub.Status == StatusMoved {
			// The person no longer lives here; the edge chain ends, no
			// replacement residency is created.
			return retireCurrent(tx, &Residency{}, "id = ?", residency.ID)
		}

		for _, attr := range sub.Attrs {
			paID, err := setCurrentAttribute(tx, sub.PersonID, attr)
			if err != nil {
				return err
			}
			if err := tx.Create(&VisitAttribute{VisitID: visit.ID, PersonAttributeID: paID}).Error; err != nil {
				return fmt.Errorf("link visit attribute: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Visit{}, err
	}
	return visit, nil
}

// addressInScope re-evaluates the read-path containment rule at write
// time: the address must be inside assigned turf, or within the autoturf
// radius of the volunteer's location when autoturf is active.
func addressInScope(tx *gorm.DB, addr Address, turfIDs []string, vol utils.VolunteerData, cfg Config) (bool, error) {
	var within bool
	if len(turfIDs) > 0 {
		err := tx.Raw(`SELECT EXISTS (
			SELECT 1 FROM canvass.turf_addresses ta
			WHERE ta.address_id = $1 AND ta.turf_id = ANY($2))`,
			addr.ID, pq.Array(turfIDs)).Scan(&within).Error
		if err != nil {
			return false, fmt.Errorf("turf containment check: %w", err)
		}
	}
	if !within && vol.Autoturf {
		err := tx.Raw(`SELECT ST_DWithin(
			ST_MakePoint($1, $2)::geography,
			ST_MakePoint($3, $4)::geography, $5)`,
			addr.Longitude, addr.Latitude, vol.Longitude, vol.Latitude,
			cfg.AutoturfRadius).Scan(&within).Error
		if err != nil {
			return false, fmt.Errorf("autoturf distance check: %w", err)
		}
	}
	return within, nil
}

// retireCurrent flips current off on whatever edge rows match, stamping
// updated. Shared by the residency and attribute version chains.
func retireCurrent(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	err := tx.Model(model).Where("current").Where(query, args...).
		Updates(map[string]interface{}{"current": false, "updated": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("retire current edge: %w", err)
	}
	return nil
}

// setCurrentAttribute retires the prior current value for this
// (person, attribute type) pair and installs the new one, reusing an
// existing value row when the person has held this value before. Returns
// the id of the now-current PersonAttribute.
func setCurrentAttribute(tx *gorm.DB, personID string, attr AttrValue) (string, error) {
	var attrType Attribute
	if err := tx.First(&attrType, "id = ?", attr.ID).Error; err != nil {
		return "", notFoundAs(err, "attribute")
	}

	if err := retireCurrent(tx, &PersonAttribute{},
		"person_id = ? AND attribute_id = ?", personID, attr.ID); err != nil {
		return "", err
	}

	now := time.Now()
	var pa PersonAttribute
	err := tx.Where("person_id = ? AND attribute_id = ? AND value = ?",
		personID, attr.ID, attr.Value).First(&pa).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pa = PersonAttribute{
			ID:          uuid.NewString(),
			PersonID:    personID,
			AttributeID: attr.ID,
			Value:       attr.Value,
			Current:     true,
			Updated:     now,
		}
		if err := tx.Create(&pa).Error; err != nil {
			return "", fmt.Errorf("create person attribute: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("person attribute lookup: %w", err)
	default:
		if err := tx.Model(&pa).
			Updates(map[string]interface{}{"current": true, "updated": now}).Error; err != nil {
			return "", fmt.Errorf("reinstate person attribute: %w", err)
		}
	}
	return pa.ID, nil
}

// notFoundAs turns a missing referenced row into the unprocessable error
// kind: every parameter was individually valid but the combination matched
// nothing.
func notFoundAs(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: no matching %s", ErrUnprocessable, what)
	}
	return fmt.Errorf("%s lookup: %w", what, err)
}
