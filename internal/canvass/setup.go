package canvass

import (
	"log"

	"github.com/CanvassHQ/canvass-backend/internal/db"
)

var cfg = DefaultConfig()

func Init(c Config) {
	cfg = c

	if err := db.EnsureSchema(db.DB, "canvass"); err != nil {
		log.Fatal("Failed to create canvass schema: ", err)
	}

	if err := db.DB.AutoMigrate(
		&Volunteer{}, &Turf{}, &Team{}, &Address{}, &Unit{}, &Person{},
		&Residency{}, &Attribute{}, &PersonAttribute{}, &Form{}, &Question{},
		&Device{}, &Visit{}, &VisitAttribute{},
		&TurfAddress{}, &TurfVolunteer{}, &TurfTeam{}, &TeamMember{},
		&FormTeam{}, &FormVolunteer{}, &QuestionForm{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
