package handlers

import (
	"net/http"

	"github.com/choreboard/choreboard-services/api/services"
)

// CreateGroup allocates a group with the caller as creator.
func CreateGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CreateGroupService(w, r)
	}
}

// JoinGroup admits the caller via invite code.
func JoinGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.JoinGroupService(w, r)
	}
}

// GetMyGroup returns the caller's group, or null.
func GetMyGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetMyGroupService(w, r)
	}
}

// UpdateMyGroup lets the creator edit name and photo.
func UpdateMyGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.UpdateMyGroupService(w, r)
	}
}

// DeleteMyGroup deletes the caller's group with its cascade.
func DeleteMyGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.DeleteMyGroupService(w, r)
	}
}

// LeaveGroup removes the caller from their group.
func LeaveGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.LeaveGroupService(w, r)
	}
}
