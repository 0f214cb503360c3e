package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateGroupService(t *testing.T) {

	mockDB := new(MockStore)
	mockPublisher := new(MockNotifier)
	svc := &Service{Config: testConfig(), DB: mockDB, Publisher: mockPublisher}

	user := models.User{ID: uuid.New(), Username: "alice"}

	mockDB.On("CreateGroup", mock.MatchedBy(func(g models.Group) bool {
		return g.Name == "Home" &&
			g.CreatorID == user.ID &&
			len(g.MemberIDs) == 1 && g.MemberIDs[0] == user.ID &&
			len(g.InviteCode) == 8 &&
			g.InviteCode == strings.ToUpper(g.InviteCode)
	})).Return(nil)
	mockDB.On("SetUserScope", user.ID, mock.AnythingOfType("*uuid.UUID"), false).Return(nil)
	mockPublisher.On("Notify", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	svc.CreateGroupService(w, authedRequest(user, http.MethodPost, "/groups",
		models.CreateGroupRequest{Name: "  Home  "}))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var group models.Group
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&group))
	assert.Equal(t, "Home", group.Name)
	assert.Equal(t, user.ID, group.CreatorID)
	assert.Len(t, group.InviteCode, 8)

	mockDB.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestCreateGroupService_EmptyName(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "alice"}

	w := httptest.NewRecorder()
	svc.CreateGroupService(w, authedRequest(user, http.MethodPost, "/groups",
		models.CreateGroupRequest{Name: "   "}))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "CreateGroup", mock.Anything)
}

func TestJoinGroupService_MatchesCodeCaseInsensitively(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	creator := uuid.New()
	user := models.User{ID: uuid.New(), Username: "bob"}
	group := &models.Group{
		ID:         uuid.New(),
		Name:       "Home",
		CreatorID:  creator,
		MemberIDs:  []uuid.UUID{creator},
		InviteCode: "AB12CD34",
	}
	joined := *group
	joined.MemberIDs = []uuid.UUID{creator, user.ID}

	// The lower-case code from the client must be looked up upper-cased
	mockDB.On("GetGroupByInviteCode", "AB12CD34").Return(group, nil)
	mockDB.On("AddGroupMember", group.ID, user.ID).Return(nil)
	mockDB.On("SetUserScope", user.ID, &group.ID, false).Return(nil)
	mockDB.On("GetGroup", group.ID).Return(&joined, nil)

	w := httptest.NewRecorder()
	svc.JoinGroupService(w, authedRequest(user, http.MethodPost, "/groups/join",
		models.JoinGroupRequest{InviteCode: " ab12cd34 "}))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var out models.Group
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Len(t, out.MemberIDs, 2, "response should reflect the appended membership")

	mockDB.AssertExpectations(t)
}

func TestJoinGroupService_UnknownCode(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "bob"}
	mockDB.On("GetGroupByInviteCode", "NOPE1234").Return(nil, nil)

	w := httptest.NewRecorder()
	svc.JoinGroupService(w, authedRequest(user, http.MethodPost, "/groups/join",
		models.JoinGroupRequest{InviteCode: "nope1234"}))

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "AddGroupMember", mock.Anything, mock.Anything)
}

func TestJoinGroupService_GroupDeletedDuringJoin(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "bob"}
	group := &models.Group{
		ID:         uuid.New(),
		Name:       "Home",
		CreatorID:  uuid.New(),
		MemberIDs:  []uuid.UUID{uuid.New()},
		InviteCode: "AB12CD34",
	}

	// The group disappears between the membership write and the re-read
	mockDB.On("GetGroupByInviteCode", "AB12CD34").Return(group, nil)
	mockDB.On("AddGroupMember", group.ID, user.ID).Return(nil)
	mockDB.On("SetUserScope", user.ID, &group.ID, false).Return(nil)
	mockDB.On("GetGroup", group.ID).Return(nil, nil)

	w := httptest.NewRecorder()
	svc.JoinGroupService(w, authedRequest(user, http.MethodPost, "/groups/join",
		models.JoinGroupRequest{InviteCode: "AB12CD34"}))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestGetMyGroupService_NoGroupReturnsNull(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "carol", Solo: true}

	w := httptest.NewRecorder()
	svc.GetMyGroupService(w, authedRequest(user, http.MethodGet, "/groups/mine", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := w.Body.String()
	assert.Equal(t, "null", strings.TrimSpace(body))
}

func TestUpdateMyGroupService_NonCreatorForbidden(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	creator := uuid.New()
	user := models.User{ID: uuid.New(), Username: "dave", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: creator,
		MemberIDs: []uuid.UUID{creator, user.ID},
	}, nil)

	w := httptest.NewRecorder()
	svc.UpdateMyGroupService(w, authedRequest(user, http.MethodPatch, "/groups/mine",
		models.GroupPatch{}))

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "UpdateGroupDetails", mock.Anything, mock.Anything)
}

func TestDeleteMyGroupService_OtherMembersBlockDeletion(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{ID: uuid.New(), Username: "erin", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: user.ID,
		MemberIDs: []uuid.UUID{user.ID, uuid.New()},
	}, nil)

	w := httptest.NewRecorder()
	svc.DeleteMyGroupService(w, authedRequest(user, http.MethodDelete, "/groups/mine", nil))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "DeleteGroup", mock.Anything)
}

func TestDeleteMyGroupService_CascadeOrder(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{ID: uuid.New(), Username: "frank", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: user.ID,
		MemberIDs: []uuid.UUID{user.ID},
	}, nil)
	mockDB.On("ClearGroupFromUsers", groupID).Return(nil)
	mockDB.On("DeleteTasksByGroup", groupID).Return(nil)
	mockDB.On("DeleteAppState", groupID.String()).Return(nil)
	mockDB.On("DeleteGroup", groupID).Return(nil)

	w := httptest.NewRecorder()
	svc.DeleteMyGroupService(w, authedRequest(user, http.MethodDelete, "/groups/mine", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	mockDB.AssertExpectations(t)
}

func TestLeaveGroupService_MemberLeaves(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	creator := uuid.New()
	user := models.User{ID: uuid.New(), Username: "grace", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: creator,
		MemberIDs: []uuid.UUID{creator, user.ID},
	}, nil)
	mockDB.On("RemoveGroupMember", groupID, user.ID).Return(nil)
	mockDB.On("SetUserScope", user.ID, (*uuid.UUID)(nil), false).Return(nil)

	w := httptest.NewRecorder()
	svc.LeaveGroupService(w, authedRequest(user, http.MethodPost, "/groups/leave", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	mockDB.AssertExpectations(t)
}

func TestLeaveGroupService_CreatorWithMembersIsBlocked(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{ID: uuid.New(), Username: "heidi", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: user.ID,
		MemberIDs: []uuid.UUID{user.ID, uuid.New()},
	}, nil)

	w := httptest.NewRecorder()
	svc.LeaveGroupService(w, authedRequest(user, http.MethodPost, "/groups/leave", nil))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "RemoveGroupMember", mock.Anything, mock.Anything)
}

func TestLeaveGroupService_SoleCreatorCascades(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{ID: uuid.New(), Username: "ivan", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(&models.Group{
		ID:        groupID,
		CreatorID: user.ID,
		MemberIDs: []uuid.UUID{user.ID},
	}, nil)
	mockDB.On("ClearGroupFromUsers", groupID).Return(nil)
	mockDB.On("DeleteTasksByGroup", groupID).Return(nil)
	mockDB.On("DeleteAppState", groupID.String()).Return(nil)
	mockDB.On("DeleteGroup", groupID).Return(nil)

	w := httptest.NewRecorder()
	svc.LeaveGroupService(w, authedRequest(user, http.MethodPost, "/groups/leave", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	mockDB.AssertExpectations(t)
}

func TestLeaveGroupService_NotInGroup(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	user := models.User{ID: uuid.New(), Username: "judy"}

	w := httptest.NewRecorder()
	svc.LeaveGroupService(w, authedRequest(user, http.MethodPost, "/groups/leave", nil))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestLeaveGroupService_StaleGroupReferenceIsCleared(t *testing.T) {

	mockDB := new(MockStore)
	svc := &Service{Config: testConfig(), DB: mockDB}

	groupID := uuid.New()
	user := models.User{ID: uuid.New(), Username: "ken", GroupID: &groupID}

	mockDB.On("GetGroup", groupID).Return(nil, nil)
	mockDB.On("SetUserScope", user.ID, (*uuid.UUID)(nil), false).Return(nil)

	w := httptest.NewRecorder()
	svc.LeaveGroupService(w, authedRequest(user, http.MethodPost, "/groups/leave", nil))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	mockDB.AssertExpectations(t)
}
