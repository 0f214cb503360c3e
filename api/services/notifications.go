package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ListNotificationsService returns the caller's mailbox in append order.
func (svc *Service) ListNotificationsService(w http.ResponseWriter, r *http.Request) {

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	notifications := user.Notifications
	if notifications == nil {
		notifications = []models.Notification{}
	}

	WriteResponse(w, http.StatusOK, notifications)
}

// ClearNotificationsService empties the caller's mailbox. Irreversible.
func (svc *Service) ClearNotificationsService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	if err := svc.DB.ClearNotifications(user.ID); err != nil {
		logger.Error().Err(err).Msg("database error clearing notifications")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	WriteResponse(w, http.StatusOK, okBody())
}

// notifyAssigned appends a task_assigned entry to the assignee's mailbox
// when a task lands on a concrete user other than the actor. Delivery is
// at-most-once and fire-and-forget: a failed append never fails the task
// operation that triggered it.
func (svc *Service) notifyAssigned(logger *zerolog.Logger, actor models.User, task models.Task) {
	assignee := task.Assignee()
	if assignee == "" || assignee == models.AssigneeAll {
		return
	}
	assigneeID, err := uuid.Parse(assignee)
	if err != nil || assigneeID == actor.ID {
		return
	}

	n := models.Notification{
		ID:        newNotificationID(),
		Type:      models.NotificationTaskAssigned,
		Message:   fmt.Sprintf("%s assigned you a new task: %s", actor.Username, task.Title()),
		TaskID:    task.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.DB.AppendNotification(assigneeID, n); err != nil {
		logger.Warn().Err(err).Str("task_id", task.ID.String()).Msg("failed to deliver task_assigned notification")
	}
}

// notifyDone appends a task_done entry to the creator's mailbox when
// somebody else completes their task.
func (svc *Service) notifyDone(logger *zerolog.Logger, actor models.User, task models.Task) {
	if task.CreatorID == actor.ID {
		return
	}

	n := models.Notification{
		ID:        newNotificationID(),
		Type:      models.NotificationTaskDone,
		Message:   fmt.Sprintf("%s completed the task: %s", actor.Username, task.Title()),
		TaskID:    task.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.DB.AppendNotification(task.CreatorID, n); err != nil {
		logger.Warn().Err(err).Str("task_id", task.ID.String()).Msg("failed to deliver task_done notification")
	}
}

// newNotificationID returns a short mailbox-local id.
func newNotificationID() string {
	return uuid.NewString()[:8]
}
