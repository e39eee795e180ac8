package canvass

import (
	"os"
	"strconv"
)

// Visit status enum.
const (
	StatusNotHome       = 0
	StatusHome          = 1
	StatusNotInterested = 2
	StatusMoved         = 3
)

// Config holds the knobs for the canvass core. It is built once at startup
// and passed down explicitly; there is no ambient feature-flag state.
type Config struct {
	// AllowAddNewPerson gates the visit/add path that creates a Person on
	// the fly.
	AllowAddNewPerson bool

	// AutoturfRadius is the fixed fallback radius (meters) admitting
	// addresses near the volunteer's location outside assigned turf.
	AutoturfRadius float64

	// Defaults for the read path.
	DefaultLimit  int
	DefaultRadius float64
}

func DefaultConfig() Config {
	return Config{
		AutoturfRadius: 1000,
		DefaultLimit:   1000,
		DefaultRadius:  10000,
	}
}

// ConfigFromEnv reads overrides from the environment on top of the
// defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("VOLUNTEER_ADD_NEW"); v != "" {
		cfg.AllowAddNewPerson, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("AUTOTURF_RADIUS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.AutoturfRadius = f
		}
	}
	return cfg
}
