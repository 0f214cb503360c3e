package handlers

import (
	"net/http"

	"github.com/choreboard/choreboard-services/api/services"
)

// Login resolves a username to a bearer token, creating the user on first
// sight.
func Login(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.LoginService(w, r)
	}
}

// GetMe returns the authenticated user.
func GetMe(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetMeService(w, r)
	}
}

// UpdateMe applies a partial profile patch.
func UpdateMe(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.UpdateMeService(w, r)
	}
}

// DeleteMe removes the account and its dependent documents.
func DeleteMe(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.DeleteMeService(w, r)
	}
}

// GetUsers lists the users visible to the caller.
func GetUsers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetUsersService(w, r)
	}
}

// GetNotifications returns the caller's mailbox.
func GetNotifications(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListNotificationsService(w, r)
	}
}

// ClearNotifications empties the caller's mailbox.
func ClearNotifications(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearNotificationsService(w, r)
	}
}
