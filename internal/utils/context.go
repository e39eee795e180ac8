package utils

import (
	"context"
)

type contextKey string

const ContextVolunteerKey contextKey = "volunteer"

// VolunteerData is the resolved caller identity carried on the request
// context by the token middleware.
type VolunteerData struct {
	ID        string
	Name      string
	Admin     bool
	Locked    bool
	Autoturf  bool
	Longitude float64
	Latitude  float64
}

func GetVolunteerFromContext(ctx context.Context) (VolunteerData, bool) {
	vol, ok := ctx.Value(ContextVolunteerKey).(VolunteerData)
	return vol, ok
}
