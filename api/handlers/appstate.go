package handlers

import (
	"net/http"

	"github.com/choreboard/choreboard-services/api/services"
)

// GetAppState returns the scope's opaque settings blob.
func GetAppState(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetAppStateService(w, r)
	}
}

// SetAppState replaces the scope's blob wholesale.
func SetAppState(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.SetAppStateService(w, r)
	}
}

// Poll returns the change-detection fingerprint for the caller's scope.
func Poll(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.PollService(w, r)
	}
}
