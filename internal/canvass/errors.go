package canvass

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Error kinds surfaced by the core. Handlers map these to HTTP codes;
// anything else is a store failure and stays generic on the wire.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("permission denied")
	ErrUnprocessable = errors.New("request matched no data")
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func errJSON(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{"error": true, "msg": msg})
}

// writeError maps a core error onto the wire. Store failures are logged
// here and never leak query text to the caller.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		errJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		errJSON(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUnprocessable):
		errJSON(w, http.StatusUnprocessableEntity, "Query returned no data. Something went wrong with your request.")
	default:
		log.Printf("store failure: %v", err)
		errJSON(w, http.StatusInternalServerError, "Internal server error.")
	}
}
