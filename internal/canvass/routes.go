package canvass

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/get/byposition", PeopleByPositionHandler)
	r.Get("/get/byaddress", PeopleByAddressHandler)
	r.Post("/visit/add", VisitAddHandler)
	r.Post("/visit/update", VisitUpdateHandler)

	return r
}
