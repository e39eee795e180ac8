package canvass

import (
	"time"
)

// The canvass schema is a relational mapping of the property graph the
// mobile clients were built against. Edge tables keep the original
// relationship shape (WITHIN, ASSIGNED, MEMBERS, RESIDENCE, ATTRIBUTE_OF,
// VISIT_*) so existing datasets can be imported row-for-row.

type Volunteer struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Admin     bool      `json:"admin"`
	Locked    bool      `json:"locked"`
	Autoturf  bool      `json:"autoturf"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	CreatedAt time.Time `json:"-"`
}

type Turf struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"-"`
}

type Team struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"-"`
}

type Address struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Longitude float64   `gorm:"index:idx_address_position" json:"longitude"`
	Latitude  float64   `gorm:"index:idx_address_position" json:"latitude"`
	Updated   time.Time `json:"updated"`
}

type Unit struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	AddressID string `gorm:"index" json:"address_id"`
}

type Person struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// Residency is the RESIDENCE edge. At most one row per person may be
// current at any time; only the visit transaction writes it.
type Residency struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	PersonID  string    `gorm:"index" json:"person_id"`
	AddressID string    `gorm:"index" json:"address_id"`
	UnitID    *string   `json:"unit_id"`
	Current   bool      `json:"current"`
	Updated   time.Time `json:"updated"`
}

// Attribute is a dynamically-typed person attribute definition.
type Attribute struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// PersonAttribute folds the value node and its ATTRIBUTE_OF edge into one
// row. At most one row per (person, attribute) pair may be current; each
// new value retires the prior one in the same transaction.
type PersonAttribute struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	PersonID    string    `gorm:"index" json:"person_id"`
	AttributeID string    `gorm:"index" json:"attribute_id"`
	Value       string    `json:"value"`
	Current     bool      `json:"current"`
	Updated     time.Time `json:"updated"`
}

type Form struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"-"`
}

type Question struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"-"`
}

type Device struct {
	UniqueID    string `gorm:"primaryKey" json:"UniqueID"`
	VolunteerID string `gorm:"index" json:"volunteer_id"`
}

// Visit is immutable once created.
type Visit struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	DeviceID    string    `json:"device_id"`
	VolunteerID string    `json:"volunteer_id"`
	AddressID   string    `gorm:"index" json:"address_id"`
	UnitID      *string   `gorm:"index" json:"unit_id"`
	FormID      string    `gorm:"index" json:"form_id"`
	PersonID    *string   `gorm:"index" json:"person_id"`
	Status      int       `json:"status"`
	Start       int64     `json:"start"`
	End         int64     `json:"end"`
	Uploaded    time.Time `json:"uploaded"`
	Longitude   float64   `json:"longitude"`
	Latitude    float64   `json:"latitude"`
}

// VisitAttribute is the VISIT_PATTR edge linking a visit to the attribute
// versions it installed.
type VisitAttribute struct {
	VisitID           string `gorm:"primaryKey" json:"visit_id"`
	PersonAttributeID string `gorm:"primaryKey" json:"person_attribute_id"`
}

// Assignment edge tables.

type TurfAddress struct {
	TurfID    string `gorm:"primaryKey" json:"turf_id"`
	AddressID string `gorm:"primaryKey" json:"address_id"`
}

type TurfVolunteer struct {
	TurfID      string `gorm:"primaryKey" json:"turf_id"`
	VolunteerID string `gorm:"primaryKey" json:"volunteer_id"`
}

type TurfTeam struct {
	TurfID string `gorm:"primaryKey" json:"turf_id"`
	TeamID string `gorm:"primaryKey" json:"team_id"`
}

type TeamMember struct {
	TeamID      string `gorm:"primaryKey" json:"team_id"`
	VolunteerID string `gorm:"primaryKey" json:"volunteer_id"`
}

type FormTeam struct {
	FormID string `gorm:"primaryKey" json:"form_id"`
	TeamID string `gorm:"primaryKey" json:"team_id"`
}

type FormVolunteer struct {
	FormID      string `gorm:"primaryKey" json:"form_id"`
	VolunteerID string `gorm:"primaryKey" json:"volunteer_id"`
}

type QuestionForm struct {
	QuestionKey string `gorm:"primaryKey" json:"question_key"`
	FormID      string `gorm:"primaryKey" json:"form_id"`
}

func (Volunteer) TableName() string       { return "canvass.volunteers" }
func (Turf) TableName() string            { return "canvass.turfs" }
func (Team) TableName() string            { return "canvass.teams" }
func (Address) TableName() string         { return "canvass.addresses" }
func (Unit) TableName() string            { return "canvass.units" }
func (Person) TableName() string          { return "canvass.persons" }
func (Residency) TableName() string       { return "canvass.residencies" }
func (Attribute) TableName() string       { return "canvass.attributes" }
func (PersonAttribute) TableName() string { return "canvass.person_attributes" }
func (Form) TableName() string            { return "canvass.forms" }
func (Question) TableName() string        { return "canvass.questions" }
func (Device) TableName() string          { return "canvass.devices" }
func (Visit) TableName() string           { return "canvass.visits" }
func (VisitAttribute) TableName() string  { return "canvass.visit_attributes" }
func (TurfAddress) TableName() string     { return "canvass.turf_addresses" }
func (TurfVolunteer) TableName() string   { return "canvass.turf_volunteers" }
func (TurfTeam) TableName() string        { return "canvass.turf_teams" }
func (TeamMember) TableName() string      { return "canvass.team_members" }
func (FormTeam) TableName() string        { return "canvass.form_teams" }
func (FormVolunteer) TableName() string   { return "canvass.form_volunteers" }
func (QuestionForm) TableName() string    { return "canvass.question_forms" }
