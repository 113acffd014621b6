package handler

import "net/http"

// Home is the unauthenticated landing route.
func Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the Devevents API"})
}
