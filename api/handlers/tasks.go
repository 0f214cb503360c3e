package handlers

import (
	"net/http"

	"github.com/choreboard/choreboard-services/api/services"
)

// GetTasks lists the tasks in the caller's scope.
func GetTasks(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListTasksService(w, r)
	}
}

// CreateTask persists a new scope-stamped task.
func CreateTask(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CreateTaskService(w, r)
	}
}

// UpdateTask merges a partial patch into a task.
func UpdateTask(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.UpdateTaskService(w, r)
	}
}

// DeleteTask removes a task.
func DeleteTask(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.DeleteTaskService(w, r)
	}
}
