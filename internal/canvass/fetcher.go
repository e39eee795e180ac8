package canvass

import (
	"errors"

	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"gorm.io/gorm"
)

// VolunteerInfo implements middleware.VolunteerFetcher.
type VolunteerInfo struct{}

func (vi VolunteerInfo) FindOrCreateVolunteer(id, name, email, avatar string) (utils.VolunteerData, error) {
	var vol Volunteer

	err := db.DB.First(&vol, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		vol = Volunteer{ID: id, Name: name, Email: email, Avatar: avatar}
		if err := db.DB.Create(&vol).Error; err != nil {
			return utils.VolunteerData{}, err
		}
	} else if err != nil {
		return utils.VolunteerData{}, err
	}

	return utils.VolunteerData{
		ID:        vol.ID,
		Name:      vol.Name,
		Admin:     vol.Admin,
		Locked:    vol.Locked,
		Autoturf:  vol.Autoturf,
		Longitude: vol.Longitude,
		Latitude:  vol.Latitude,
	}, nil
}
