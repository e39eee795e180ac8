package directory

import (
	"github.com/CanvassHQ/canvass-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes wires the directory endpoints onto the authenticated v1
// router. Mutating assignment routes are admin-only; listing and
// form/question authoring are open to any volunteer, matching the mobile
// clients' expectations.
func RegisterRoutes(r chi.Router) {
	r.Get("/canvasser/list", CanvasserListHandler)
	r.Get("/team/list", TeamListHandler)
	r.Get("/team/members/list", TeamMembersListHandler)
	r.Get("/turf/list", TurfListHandler)
	r.Get("/turf/assigned/team/list", TurfAssignedTeamListHandler)
	r.Get("/turf/assigned/canvasser/list", TurfAssignedCanvasserListHandler)
	r.Get("/form/get", FormGetHandler)
	r.Get("/form/list", FormListHandler)
	r.Post("/form/create", FormCreateHandler)
	r.Get("/form/assigned/team/list", FormAssignedTeamListHandler)
	r.Get("/form/assigned/canvasser/list", FormAssignedCanvasserListHandler)
	r.Get("/question/get", QuestionGetHandler)
	r.Get("/question/list", QuestionListHandler)
	r.Post("/question/create", QuestionCreateHandler)
	r.Get("/question/assigned/list", QuestionAssignedListHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminMiddleware)
		r.Post("/canvasser/lock", CanvasserLockHandler)
		r.Post("/canvasser/unlock", CanvasserUnlockHandler)
		r.Post("/team/create", TeamCreateHandler)
		r.Post("/team/delete", TeamDeleteHandler)
		r.Post("/team/members/add", TeamMembersAddHandler)
		r.Post("/team/members/remove", TeamMembersRemoveHandler)
		r.Post("/turf/create", TurfCreateHandler)
		r.Post("/turf/delete", TurfDeleteHandler)
		r.Post("/turf/assigned/team/add", TurfAssignedTeamAddHandler)
		r.Post("/turf/assigned/team/remove", TurfAssignedTeamRemoveHandler)
		r.Post("/turf/assigned/canvasser/add", TurfAssignedCanvasserAddHandler)
		r.Post("/turf/assigned/canvasser/remove", TurfAssignedCanvasserRemoveHandler)
		r.Post("/turf/assigned/address/add", TurfAssignedAddressAddHandler)
		r.Post("/form/delete", FormDeleteHandler)
		r.Post("/form/assigned/team/add", FormAssignedTeamAddHandler)
		r.Post("/form/assigned/team/remove", FormAssignedTeamRemoveHandler)
		r.Post("/form/assigned/canvasser/add", FormAssignedCanvasserAddHandler)
		r.Post("/form/assigned/canvasser/remove", FormAssignedCanvasserRemoveHandler)
		r.Post("/question/delete", QuestionDeleteHandler)
		r.Post("/question/assigned/add", QuestionAssignedAddHandler)
		r.Post("/question/assigned/remove", QuestionAssignedRemoveHandler)
		r.Get("/device/list", DeviceListHandler)
	})
}
