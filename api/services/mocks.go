package services

import (
	"encoding/json"

	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is the testify mock of the Store interface.
type MockStore struct {
	mock.Mock
}

// MockNotifier is the testify mock of the events.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockStore) CreateUser(user models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStore) GetUser(userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUsersByGroup(groupID uuid.UUID) ([]models.User, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(userID uuid.UUID, patch models.UserPatch) error {
	args := m.Called(userID, patch)
	return args.Error(0)
}

func (m *MockStore) SetUserScope(userID uuid.UUID, groupID *uuid.UUID, solo bool) error {
	args := m.Called(userID, groupID, solo)
	return args.Error(0)
}

func (m *MockStore) ClearGroupFromUsers(groupID uuid.UUID) error {
	args := m.Called(groupID)
	return args.Error(0)
}

func (m *MockStore) AppendNotification(userID uuid.UUID, n models.Notification) error {
	args := m.Called(userID, n)
	return args.Error(0)
}

func (m *MockStore) ClearNotifications(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) DeleteUser(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) CreateGroup(group models.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockStore) GetGroup(groupID uuid.UUID) (*models.Group, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) GetGroupByInviteCode(code string) (*models.Group, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) AddGroupMember(groupID, userID uuid.UUID) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockStore) RemoveGroupMember(groupID, userID uuid.UUID) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockStore) UpdateGroupDetails(groupID uuid.UUID, patch models.GroupPatch) error {
	args := m.Called(groupID, patch)
	return args.Error(0)
}

func (m *MockStore) DeleteGroup(groupID uuid.UUID) error {
	args := m.Called(groupID)
	return args.Error(0)
}

func (m *MockStore) GetTasks(scope models.Scope) ([]models.Task, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockStore) GetTask(taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockStore) CreateTask(task models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockStore) UpdateTaskFields(taskID uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(taskID, fields)
	return args.Error(0)
}

func (m *MockStore) DeleteTask(taskID uuid.UUID) error {
	args := m.Called(taskID)
	return args.Error(0)
}

func (m *MockStore) DeleteTasksByGroup(groupID uuid.UUID) error {
	args := m.Called(groupID)
	return args.Error(0)
}

func (m *MockStore) DeleteTasksBySoloOwner(ownerID uuid.UUID) error {
	args := m.Called(ownerID)
	return args.Error(0)
}

func (m *MockStore) GetAppState(scopeKey string) (json.RawMessage, error) {
	args := m.Called(scopeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockStore) UpsertAppState(scopeKey string, state json.RawMessage) error {
	args := m.Called(scopeKey, state)
	return args.Error(0)
}

func (m *MockStore) DeleteAppState(scopeKey string) error {
	args := m.Called(scopeKey)
	return args.Error(0)
}

// Notify mocks publishing a board event.
func (m *MockNotifier) Notify(event events.EventPayload) error {
	args := m.Called(event)
	return args.Error(0)
}

// Close mocks closing the publisher.
func (m *MockNotifier) Close() {
	m.Called()
}
