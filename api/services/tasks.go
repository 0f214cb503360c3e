package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ListTasksService returns every task inside the caller's resolved scope.
func (svc *Service) ListTasksService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	tasks, err := svc.DB.GetTasks(models.ResolveScope(user))
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving tasks")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	WriteResponse(w, http.StatusOK, tasks)
}

// CreateTaskService stamps a new task with the creator's current scope and
// persists it. The scope stamp never changes afterwards, even if the
// creator later changes groups. Assigning the task to another member fires
// a task_assigned notification.
func (svc *Service) CreateTaskService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		logger.Warn().Err(err).Msg("invalid task payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}
	// A JSON null body decodes into a nil map; store an empty object instead
	if fields == nil {
		fields = map[string]interface{}{}
	}
	stripReservedFields(fields)

	task := models.Task{
		ID:        uuid.New(),
		CreatorID: user.ID,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
	scope := models.ResolveScope(user)
	if scope.IsGroup() {
		task.GroupID = scope.GroupID
	} else {
		task.OwnerID = scope.OwnerID
	}

	if err := svc.DB.CreateTask(task); err != nil {
		logger.Error().Err(err).Msg("database error creating task")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	svc.notifyAssigned(logger, user, task)
	svc.publishEvent(logger, events.ActionCreated, "task", task.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusCreated, task)
}

// UpdateTaskService merges a partial patch into a task inside the caller's
// scope. Identity and scope fields are stripped from the patch; editing is
// shared across the scope's members. Completing someone else's task fires
// a task_done notification to its creator, and handing it to a new
// assignee fires task_assigned.
func (svc *Service) UpdateTaskService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	task, err := svc.taskInScope(logger, user, mux.Vars(r)["task-id"])
	if err != nil {
		WriteErrResponse(w, err)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn().Err(err).Msg("invalid task patch payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}
	stripReservedFields(patch)

	// Tasks stored before the null-body normalization can read back with a
	// nil field map
	if task.Fields == nil {
		task.Fields = map[string]interface{}{}
	}

	wasDone := task.Done()
	prevAssignee := task.Assignee()
	for k, v := range patch {
		task.Fields[k] = v
	}

	if err := svc.DB.UpdateTaskFields(task.ID, task.Fields); err != nil {
		logger.Error().Err(err).Msg("database error updating task")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	action := events.ActionUpdated
	if task.Done() && !wasDone {
		action = events.ActionCompleted
		svc.notifyDone(logger, user, *task)
	}
	if task.Assignee() != prevAssignee {
		svc.notifyAssigned(logger, user, *task)
	}

	svc.publishEvent(logger, action, "task", task.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusOK, okBody())
}

// DeleteTaskService removes a task inside the caller's scope.
func (svc *Service) DeleteTaskService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	task, err := svc.taskInScope(logger, user, mux.Vars(r)["task-id"])
	if err != nil {
		WriteErrResponse(w, err)
		return
	}

	if err := svc.DB.DeleteTask(task.ID); err != nil {
		logger.Error().Err(err).Msg("database error deleting task")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	svc.publishEvent(logger, events.ActionDeleted, "task", task.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusOK, okBody())
}

// taskInScope loads a task and checks it against the caller's resolved
// scope. Tasks outside the scope read as absent so their existence is not
// leaked.
func (svc *Service) taskInScope(logger *zerolog.Logger, user models.User, rawID string) (*models.Task, error) {
	taskID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.NotFound("task does not exist")
	}

	task, err := svc.DB.GetTask(taskID)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving task")
		return nil, apperrors.Store(err)
	}
	if task == nil || !models.ResolveScope(user).Contains(*task) {
		return nil, apperrors.NotFound("task does not exist")
	}
	return task, nil
}

// stripReservedFields drops the service-owned attributes from an incoming
// task body so patches can never rewrite identity or move a task across
// scopes.
func stripReservedFields(fields map[string]interface{}) {
	for _, k := range models.ReservedTaskFields {
		delete(fields, k)
	}
}
