package services

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/models"
	"github.com/rs/zerolog"
)

// GetAppStateService returns the opaque settings blob for the caller's
// scope, or an empty object before the first write.
func (svc *Service) GetAppStateService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	state, err := svc.DB.GetAppState(models.ResolveScope(user).Key())
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving app state")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}
	if state == nil {
		state = json.RawMessage("{}")
	}

	WriteResponse(w, http.StatusOK, state)
}

// SetAppStateService replaces the scope's blob wholesale. Last write wins;
// the server never inspects the content.
func (svc *Service) SetAppStateService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("error reading app state body")
		WriteErrResponse(w, apperrors.Validation("invalid request payload"))
		return
	}
	if !json.Valid(body) {
		WriteErrResponse(w, apperrors.Validation("app state must be valid JSON"))
		return
	}

	if err := svc.DB.UpsertAppState(models.ResolveScope(user).Key(), body); err != nil {
		logger.Error().Err(err).Msg("database error storing app state")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	WriteResponse(w, http.StatusOK, okBody())
}
