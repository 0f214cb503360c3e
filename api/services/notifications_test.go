package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestListNotificationsService_ReturnsMailboxInOrder(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	first := models.Notification{
		ID:        "aaaa1111",
		Type:      models.NotificationTaskAssigned,
		Message:   "bob assigned you a new task: Dishes",
		TaskID:    uuid.New(),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	second := models.Notification{
		ID:        "bbbb2222",
		Type:      models.NotificationTaskDone,
		Message:   "bob completed the task: Laundry",
		TaskID:    uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	user := models.User{
		ID:            uuid.New(),
		Username:      "alice",
		Notifications: []models.Notification{first, second},
	}

	w := httptest.NewRecorder()
	svc.ListNotificationsService(w, authedRequest(user, http.MethodGet, "/users/notifications", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var out []models.Notification
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Len(t, out, 2)
	assert.Equal(t, first.ID, out[0].ID)
	assert.Equal(t, second.ID, out[1].ID)
	assert.Equal(t, models.NotificationTaskDone, out[1].Type)
}

func TestListNotificationsService_EmptyMailboxIsEmptyArray(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "bob"}

	w := httptest.NewRecorder()
	svc.ListNotificationsService(w, authedRequest(user, http.MethodGet, "/users/notifications", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestClearNotificationsService(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{
		ID:            uuid.New(),
		Username:      "carol",
		Notifications: []models.Notification{{ID: "aaaa1111"}},
	}
	mockDB.On("ClearNotifications", user.ID).Return(nil)

	w := httptest.NewRecorder()
	svc.ClearNotificationsService(w, authedRequest(user, http.MethodDelete, "/users/notifications", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	mockDB.AssertExpectations(t)
}
