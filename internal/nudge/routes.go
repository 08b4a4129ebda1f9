package nudge

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the nudge surface. The injected middleware must place
// the caller's netid in the request context.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1/nudges").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("", handler.CreateNudge).Methods("POST")
	api.HandleFunc("/{promptId}/{other}", handler.GetNudgeStatus).Methods("GET")
}
