package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateGroupService allocates a group with the caller as creator and sole
// member and moves the caller out of solo/unconfigured state. Two writes,
// not one transaction: the group document first, then the caller's
// back-reference.
func (svc *Service) CreateGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("invalid group payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		WriteErrResponse(w, apperrors.Validation("group name is required"))
		return
	}

	group := models.Group{
		ID:         uuid.New(),
		Name:       name,
		Photo:      req.Photo,
		CreatorID:  user.ID,
		MemberIDs:  []uuid.UUID{user.ID},
		InviteCode: generateInviteCode(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := svc.DB.CreateGroup(group); err != nil {
		logger.Error().Err(err).Msg("database error creating group")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	if err := svc.DB.SetUserScope(user.ID, &group.ID, false); err != nil {
		logger.Error().Err(err).Msg("database error setting creator scope")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Msg("group created")
	svc.publishEvent(logger, events.ActionCreated, "group", group.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusCreated, group)
}

// JoinGroupService admits the caller to a group via invite code. Codes are
// matched case-insensitively and joining an already-joined group is a
// no-op.
func (svc *Service) JoinGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	var req models.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("invalid join payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		WriteErrResponse(w, apperrors.Validation("invite code is required"))
		return
	}

	group, err := svc.DB.GetGroupByInviteCode(code)
	if err != nil {
		logger.Error().Err(err).Msg("database error looking up invite code")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if group == nil {
		WriteErrResponse(w, apperrors.NotFound("no group matches that invite code"))
		return
	}

	if err := svc.DB.AddGroupMember(group.ID, user.ID); err != nil {
		logger.Error().Err(err).Msg("database error adding member")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if err := svc.DB.SetUserScope(user.ID, &group.ID, false); err != nil {
		logger.Error().Err(err).Msg("database error setting member scope")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	// Re-read so the response reflects the appended membership
	joined, err := svc.DB.GetGroup(group.ID)
	if err != nil {
		logger.Error().Err(err).Msg("database error reloading group")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if joined == nil {
		// Deleted between the membership write and the re-read
		WriteErrResponse(w, apperrors.NotFound("group does not exist"))
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Str("user_id", user.ID.String()).Msg("user joined group")
	WriteResponse(w, http.StatusOK, *joined)
}

// GetMyGroupService returns the caller's group, or null outside one.
func (svc *Service) GetMyGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	if user.GroupID == nil {
		WriteResponse(w, http.StatusOK, (*models.Group)(nil))
		return
	}

	group, err := svc.DB.GetGroup(*user.GroupID)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving group")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	// A stale back-reference (group deleted mid-cascade) reads as no group
	WriteResponse(w, http.StatusOK, group)
}

// UpdateMyGroupService lets the creator rename the group or change its
// photo. An empty name is ignored, not an error.
func (svc *Service) UpdateMyGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	group, err := svc.requireGroup(logger, user)
	if err != nil {
		WriteErrResponse(w, err)
		return
	}
	if group.CreatorID != user.ID {
		WriteErrResponse(w, apperrors.Forbidden("only the group creator can edit the group"))
		return
	}

	var patch models.GroupPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn().Err(err).Msg("invalid group patch payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			patch.Name = nil
		} else {
			patch.Name = &trimmed
		}
	}

	if err := svc.DB.UpdateGroupDetails(group.ID, patch); err != nil {
		logger.Error().Err(err).Msg("database error updating group")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	svc.publishEvent(logger, events.ActionUpdated, "group", group.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusOK, okBody())
}

// DeleteMyGroupService deletes the caller's group. Creator only, and only
// once every other member has departed.
func (svc *Service) DeleteMyGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	group, err := svc.requireGroup(logger, user)
	if err != nil {
		WriteErrResponse(w, err)
		return
	}
	if group.CreatorID != user.ID {
		WriteErrResponse(w, apperrors.Forbidden("only the group creator can delete the group"))
		return
	}
	if len(group.MemberIDs) > 1 {
		WriteErrResponse(w, apperrors.Conflict("other members must leave before the group can be deleted"))
		return
	}

	if err := svc.cascadeDeleteGroup(logger, group.ID); err != nil {
		WriteErrResponse(w, err)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Msg("group deleted")
	svc.publishEvent(logger, events.ActionDeleted, "group", group.ID.String(), user.ID.String())
	WriteResponse(w, http.StatusOK, okBody())
}

// LeaveGroupService removes the caller from their group. The creator can
// only leave once alone, and leaving then removes the group entirely so it
// never exists without its creator.
func (svc *Service) LeaveGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	if user.GroupID == nil {
		WriteErrResponse(w, apperrors.Validation("you are not in a group"))
		return
	}

	if err := svc.removeFromGroup(logger, user); err != nil {
		WriteErrResponse(w, err)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("user left group")
	WriteResponse(w, http.StatusOK, okBody())
}

// requireGroup loads the caller's group, translating "no group" states
// into client errors.
func (svc *Service) requireGroup(logger *zerolog.Logger, user models.User) (*models.Group, error) {
	if user.GroupID == nil {
		return nil, apperrors.Validation("you are not in a group")
	}
	group, err := svc.DB.GetGroup(*user.GroupID)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving group")
		return nil, apperrors.Store(err)
	}
	if group == nil {
		return nil, apperrors.NotFound("group does not exist")
	}
	return group, nil
}

// removeFromGroup detaches the user from their current group, enforcing
// the creator guard. Shared by leaving and account deletion.
func (svc *Service) removeFromGroup(logger *zerolog.Logger, user models.User) error {
	group, err := svc.DB.GetGroup(*user.GroupID)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving group")
		return apperrors.Store(err)
	}
	if group == nil {
		// Stale back-reference from an interrupted cascade; clear it
		return svc.clearScope(logger, user.ID)
	}

	if group.CreatorID == user.ID {
		if len(group.MemberIDs) > 1 {
			return apperrors.Conflict("delete the group or transfer it before leaving")
		}
		// Sole creator departing removes the group, otherwise it would
		// outlive its creator
		return svc.cascadeDeleteGroup(logger, group.ID)
	}

	if err := svc.DB.RemoveGroupMember(group.ID, user.ID); err != nil {
		logger.Error().Err(err).Msg("database error removing member")
		return apperrors.Store(err)
	}
	return svc.clearScope(logger, user.ID)
}

// cascadeDeleteGroup runs the three dependent writes of group deletion in
// a fixed order: user back-references, then group tasks, then the group
// document. A crash in between leaves only forward-recoverable state
// (dangling tasks or app state, never dangling users).
func (svc *Service) cascadeDeleteGroup(logger *zerolog.Logger, groupID uuid.UUID) error {
	if err := svc.DB.ClearGroupFromUsers(groupID); err != nil {
		logger.Error().Err(err).Msg("database error clearing member back-references")
		return apperrors.Store(err)
	}
	if err := svc.DB.DeleteTasksByGroup(groupID); err != nil {
		logger.Error().Err(err).Msg("database error deleting group tasks")
		return apperrors.Store(err)
	}
	if err := svc.DB.DeleteAppState(groupID.String()); err != nil {
		logger.Error().Err(err).Msg("database error deleting group app state")
		return apperrors.Store(err)
	}
	if err := svc.DB.DeleteGroup(groupID); err != nil {
		logger.Error().Err(err).Msg("database error deleting group")
		return apperrors.Store(err)
	}
	return nil
}

func (svc *Service) clearScope(logger *zerolog.Logger, userID uuid.UUID) error {
	if err := svc.DB.SetUserScope(userID, nil, false); err != nil {
		logger.Error().Err(err).Msg("database error clearing user scope")
		return apperrors.Store(err)
	}
	return nil
}
