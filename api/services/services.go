package services

import (
	"encoding/json"

	"github.com/choreboard/choreboard-services/internal/appconfig"
	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
)

// Store is the document-store contract the services depend on. *db.BoardDB
// is the production implementation; tests substitute a testify mock.
type Store interface {
	CreateUser(user models.User) error
	GetUser(userID uuid.UUID) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsersByGroup(groupID uuid.UUID) ([]models.User, error)
	UpdateUser(userID uuid.UUID, patch models.UserPatch) error
	SetUserScope(userID uuid.UUID, groupID *uuid.UUID, solo bool) error
	ClearGroupFromUsers(groupID uuid.UUID) error
	AppendNotification(userID uuid.UUID, n models.Notification) error
	ClearNotifications(userID uuid.UUID) error
	DeleteUser(userID uuid.UUID) error

	CreateGroup(group models.Group) error
	GetGroup(groupID uuid.UUID) (*models.Group, error)
	GetGroupByInviteCode(code string) (*models.Group, error)
	AddGroupMember(groupID, userID uuid.UUID) error
	RemoveGroupMember(groupID, userID uuid.UUID) error
	UpdateGroupDetails(groupID uuid.UUID, patch models.GroupPatch) error
	DeleteGroup(groupID uuid.UUID) error

	GetTasks(scope models.Scope) ([]models.Task, error)
	GetTask(taskID uuid.UUID) (*models.Task, error)
	CreateTask(task models.Task) error
	UpdateTaskFields(taskID uuid.UUID, fields map[string]interface{}) error
	DeleteTask(taskID uuid.UUID) error
	DeleteTasksByGroup(groupID uuid.UUID) error
	DeleteTasksBySoloOwner(ownerID uuid.UUID) error

	GetAppState(scopeKey string) (json.RawMessage, error)
	UpsertAppState(scopeKey string, state json.RawMessage) error
	DeleteAppState(scopeKey string) error
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config    *appconfig.Config
	DB        Store
	Publisher events.Notifier
}
