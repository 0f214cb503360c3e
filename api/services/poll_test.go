package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {

	groupID := uuid.New()
	tasks := []models.Task{
		{ID: uuid.New(), GroupID: &groupID, Fields: map[string]interface{}{"title": "Dishes", "done": false}},
		{ID: uuid.New(), GroupID: &groupID, Fields: map[string]interface{}{"title": "Laundry", "done": true}},
	}
	members := []models.User{
		{ID: uuid.New(), Username: "alice", Color: "#ff0000"},
		{ID: uuid.New(), Username: "bob", Color: "#00ff00"},
	}

	a, err := Fingerprint(tasks, members)
	assert.NoError(t, err)
	assert.Len(t, a, 64, "sha256 hex digest")

	// Input ordering must not matter
	reversedTasks := []models.Task{tasks[1], tasks[0]}
	reversedMembers := []models.User{members[1], members[0]}
	b, err := Fingerprint(reversedTasks, reversedMembers)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFingerprint_ChangesWithVisibleState(t *testing.T) {

	groupID := uuid.New()
	task := models.Task{ID: uuid.New(), GroupID: &groupID,
		Fields: map[string]interface{}{"title": "Dishes", "done": false}}
	member := models.User{ID: uuid.New(), Username: "alice", Color: "#ff0000"}

	base, err := Fingerprint([]models.Task{task}, []models.User{member})
	assert.NoError(t, err)

	// Completing the task changes the digest
	doneTask := task
	doneTask.Fields = map[string]interface{}{"title": "Dishes", "done": true}
	changed, err := Fingerprint([]models.Task{doneTask}, []models.User{member})
	assert.NoError(t, err)
	assert.NotEqual(t, base, changed)

	// A member changing their color changes the digest
	recolored := member
	recolored.Color = "#0000ff"
	changed, err = Fingerprint([]models.Task{task}, []models.User{recolored})
	assert.NoError(t, err)
	assert.NotEqual(t, base, changed)

	// An extra task changes the digest
	extra := models.Task{ID: uuid.New(), GroupID: &groupID,
		Fields: map[string]interface{}{"title": "Vacuum"}}
	changed, err = Fingerprint([]models.Task{task, extra}, []models.User{member})
	assert.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestFingerprint_IgnoresTokensAndMailboxes(t *testing.T) {

	member := models.User{ID: uuid.New(), Username: "alice", Token: "token-one"}

	base, err := Fingerprint(nil, []models.User{member})
	assert.NoError(t, err)

	noisy := member
	noisy.Token = "token-two"
	noisy.Notifications = []models.Notification{{ID: "aaaa1111", Type: models.NotificationTaskDone}}

	same, err := Fingerprint(nil, []models.User{noisy})
	assert.NoError(t, err)
	assert.Equal(t, base, same, "tokens and mailboxes must not feed the digest")
}

func TestPollService(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{
		ID:       uuid.New(),
		Username: "alice",
		GroupID:  &groupID,
		Notifications: []models.Notification{
			{ID: "aaaa1111", Type: models.NotificationTaskAssigned},
		},
	}
	tasks := []models.Task{
		{ID: uuid.New(), GroupID: &groupID, Fields: map[string]interface{}{"title": "Dishes"}},
	}
	members := []models.User{user, {ID: uuid.New(), Username: "bob", GroupID: &groupID}}

	mockDB.On("GetTasks", models.ResolveScope(user)).Return(tasks, nil)
	mockDB.On("GetUsersByGroup", groupID).Return(members, nil)

	w := httptest.NewRecorder()
	svc.PollService(w, authedRequest(user, http.MethodGet, "/poll", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var resp PollResponse
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.True(t, resp.HasNotifications)

	expected, err := Fingerprint(tasks, members)
	assert.NoError(t, err)
	assert.Equal(t, expected, resp.Fingerprint)

	mockDB.AssertExpectations(t)
}

func TestPollService_NoNotifications(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "bob", Solo: true}
	mockDB.On("GetTasks", models.ResolveScope(user)).Return([]models.Task{}, nil)

	w := httptest.NewRecorder()
	svc.PollService(w, authedRequest(user, http.MethodGet, "/poll", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var resp PollResponse
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.False(t, resp.HasNotifications)
	assert.NotEmpty(t, resp.Fingerprint)
}
