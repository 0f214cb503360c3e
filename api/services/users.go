package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/internal/authn"
	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LoginService resolves a username to a bearer token, creating the user on
// first sight. This is the only unauthenticated endpoint.
func (svc *Service) LoginService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("invalid login payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		WriteErrResponse(w, apperrors.Validation("username is required"))
		return
	}

	user, err := svc.DB.GetUserByUsername(username)
	if err != nil {
		logger.Error().Err(err).Msg("database error looking up user")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	if user == nil {
		userID := uuid.New()
		token, err := authn.MintToken(userID, username, svc.Config.Auth.SigningKey)
		if err != nil {
			logger.Error().Err(err).Msg("failed to mint bearer token")
			WriteErrResponse(w, apperrors.Store(err))
			return
		}

		user = &models.User{
			ID:             userID,
			Username:       username,
			Token:          token,
			ColorOverrides: map[string]string{},
			Notifications:  []models.Notification{},
			CreatedAt:      time.Now().UTC(),
		}
		if err := svc.DB.CreateUser(*user); err != nil {
			logger.Error().Err(err).Msg("database error creating user")
			WriteErrResponse(w, apperrors.Store(err))
			return
		}
		logger.Info().Str("user_id", userID.String()).Msg("user created on first login")
	}

	WriteResponse(w, http.StatusOK, models.LoginResponse{
		Token:      user.Token,
		UserID:     user.ID,
		NeedsSetup: user.NeedsSetup(),
	})
}

// GetMeService returns the authenticated user, token stripped.
func (svc *Service) GetMeService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		logger.Warn().Msg("unauthorized request: missing user")
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	WriteResponse(w, http.StatusOK, user)
}

// UpdateMeService applies a partial profile patch to the authenticated
// user.
func (svc *Service) UpdateMeService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn().Err(err).Msg("invalid profile patch payload")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}

	// An empty display name is ignored rather than rejected
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			patch.Name = nil
		} else {
			patch.Name = &trimmed
		}
	}

	// The resolved scope stays single-valued: solo mode cannot be chosen
	// while a group membership is active
	if patch.Solo != nil && *patch.Solo && user.GroupID != nil {
		WriteErrResponse(w, apperrors.Validation("leave your group before switching to solo mode"))
		return
	}

	if err := svc.DB.UpdateUser(user.ID, patch); err != nil {
		logger.Error().Err(err).Msg("database error updating user")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	updated, err := svc.DB.GetUser(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("database error reloading user")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if updated == nil {
		// Account deleted between the patch and the re-read
		WriteErrResponse(w, apperrors.NotFound("user does not exist"))
		return
	}

	WriteResponse(w, http.StatusOK, *updated)
}

// DeleteMeService removes the account: group membership first (same
// creator guard as leaving), then the user's solo tasks and app state,
// finally the user document itself. The writes are sequenced, not
// transactional; dependents go before the owning record.
func (svc *Service) DeleteMeService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	if user.GroupID != nil {
		if err := svc.removeFromGroup(logger, user); err != nil {
			WriteErrResponse(w, err)
			return
		}
	}

	if err := svc.DB.DeleteTasksBySoloOwner(user.ID); err != nil {
		logger.Error().Err(err).Msg("database error deleting solo tasks")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if err := svc.DB.DeleteAppState(user.ID.String()); err != nil {
		logger.Error().Err(err).Msg("database error deleting solo app state")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if err := svc.DB.DeleteUser(user.ID); err != nil {
		logger.Error().Err(err).Msg("database error deleting user")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("account deleted")
	WriteResponse(w, http.StatusOK, okBody())
}

// GetUsersService lists the users visible to the caller: their group's
// members, or just themselves outside a group. Tokens and mailboxes are
// stripped by serialization.
func (svc *Service) GetUsersService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	members, err := svc.visibleMembers(user)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving members")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	WriteResponse(w, http.StatusOK, members)
}

// visibleMembers resolves the member list for the caller's scope. Shared
// with the poller so both observe the same view.
func (svc *Service) visibleMembers(user models.User) ([]models.User, error) {
	if user.GroupID == nil {
		return []models.User{user}, nil
	}
	members, err := svc.DB.GetUsersByGroup(*user.GroupID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.User{}
	}
	return members, nil
}
