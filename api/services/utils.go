package services

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"time"

	"github.com/choreboard/choreboard-services/api/middleware"
	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/choreboard/choreboard-services/models"
	"github.com/rs/zerolog"
)

const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const inviteCodeLength = 8

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return // **Return immediately to avoid multiple WriteHeader calls**
		}
	}
}

// WriteErrResponse maps an error onto its HTTP status and the standard
// {"error": <message>} body.
func WriteErrResponse(w http.ResponseWriter, err error) {
	WriteResponse(w, apperrors.Status(err), map[string]string{"error": err.Error()})
}

// okBody is the success shape of mutations that return no entity.
func okBody() map[string]bool {
	return map[string]bool{"ok": true}
}

// userFromContext pulls the authenticated user placed by the auth
// middleware.
func userFromContext(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(middleware.UserKey).(models.User)
	return user, ok
}

// generateInviteCode draws a fresh 8-character upper-case alphanumeric join
// token. Collisions are not checked: the code space is large relative to
// expected group counts, an accepted risk (the unique index would surface
// one as a store error).
func generateInviteCode() string {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf)
}

// publishEvent emits a board event fire-and-forget. Failures never fail the
// triggering request.
func (svc *Service) publishEvent(logger *zerolog.Logger, action, entity, entityID, actor string) {
	if svc.Publisher == nil {
		return
	}
	err := svc.Publisher.Notify(events.EventPayload{
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now().UTC().Unix(),
	})
	if err != nil {
		logger.Warn().Err(err).Str("entity", entity).Str("action", action).Msg("failed to publish board event")
	}
}
