package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a shared board. MemberIDs always contains CreatorID
// while the group exists.
type Group struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Photo      *string     `json:"photo,omitempty"`
	CreatorID  uuid.UUID   `json:"creatorId"`
	MemberIDs  []uuid.UUID `json:"memberIds"`
	InviteCode string      `json:"inviteCode"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// HasMember reports whether the user is listed in the group.
func (g Group) HasMember(userID uuid.UUID) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

// JoinGroupRequest is the body of POST /groups/join.
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

// GroupPatch carries the creator-editable fields of PATCH /groups/mine.
type GroupPatch struct {
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
}
