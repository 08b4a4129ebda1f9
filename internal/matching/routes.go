package matching

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the matching surface. Authentication is an upstream
// concern: the injected middleware must place the caller's netid in the
// request context.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/generate", handler.GenerateMatches).Methods("POST")
	api.HandleFunc("/validate/{promptId}", handler.ValidateMutuality).Methods("GET")
	api.HandleFunc("/{promptId}", handler.GetMatch).Methods("GET")
	api.HandleFunc("/{promptId}/reveal", handler.RevealMatch).Methods("POST")
}
