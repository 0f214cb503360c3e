package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/choreboard/choreboard-services/internal/apperrors"
	"github.com/choreboard/choreboard-services/models"
	"github.com/rs/zerolog"
)

// PollResponse is the body of GET /poll. Clients compare the fingerprint
// against their last-seen value and refetch full state only on change.
type PollResponse struct {
	Fingerprint      string `json:"fingerprint"`
	HasNotifications bool   `json:"hasNotifications"`
}

// PollService computes the change-detection digest over the caller's
// visible state: the tasks in their scope and the visible member list
// (tokens and mailboxes stripped). Mailbox content deliberately does not
// feed the digest; it is reported through the separate boolean.
func (svc *Service) PollService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	user, ok := userFromContext(r)
	if !ok {
		WriteErrResponse(w, apperrors.Auth("unauthorized"))
		return
	}

	tasks, err := svc.DB.GetTasks(models.ResolveScope(user))
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving tasks for poll")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	members, err := svc.visibleMembers(user)
	if err != nil {
		logger.Error().Err(err).Msg("database error retrieving members for poll")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	fingerprint, err := Fingerprint(tasks, members)
	if err != nil {
		logger.Error().Err(err).Msg("error computing fingerprint")
		WriteErrResponse(w, apperrors.Store(err))
		return
	}

	WriteResponse(w, http.StatusOK, PollResponse{
		Fingerprint:      fingerprint,
		HasNotifications: len(user.Notifications) > 0,
	})
}

// Fingerprint hashes a canonical serialization of the visible tasks and
// members into a fixed-length digest. Determinism comes from sorting both
// sets by id and from encoding/json's sorted map keys; sha256 is used for
// its collision resistance, not for cryptographic strength.
func Fingerprint(tasks []models.Task, members []models.User) (string, error) {
	sortedTasks := make([]models.Task, len(tasks))
	copy(sortedTasks, tasks)
	sort.Slice(sortedTasks, func(i, j int) bool {
		return sortedTasks[i].ID.String() < sortedTasks[j].ID.String()
	})

	sortedMembers := make([]models.User, len(members))
	copy(sortedMembers, members)
	sort.Slice(sortedMembers, func(i, j int) bool {
		return sortedMembers[i].ID.String() < sortedMembers[j].ID.String()
	})

	payload := struct {
		Tasks   []models.Task `json:"tasks"`
		Members []models.User `json:"members"`
	}{Tasks: sortedTasks, Members: sortedMembers}

	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:]), nil
}
