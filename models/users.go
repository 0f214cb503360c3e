package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a board member. The bearer token is stored alongside the
// user but is never serialized after login; the mailbox is only exposed
// through the notifications endpoints.
type User struct {
	ID             uuid.UUID         `json:"id"`
	Username       string            `json:"username"`
	Color          string            `json:"color"`
	Photo          *string           `json:"photo,omitempty"`
	Token          string            `json:"-"`
	GroupID        *uuid.UUID        `json:"groupId"`
	Solo           bool              `json:"solo"`
	Theme          string            `json:"theme,omitempty"`
	ColorOverrides map[string]string `json:"colorOverrides,omitempty"`
	Notifications  []Notification    `json:"-"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// NeedsSetup reports whether the user has neither joined a group nor chosen
// solo mode yet. Clients use this to prompt first-run setup.
func (u User) NeedsSetup() bool {
	return u.GroupID == nil && !u.Solo
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is returned from POST /users/login. This is the only place
// the bearer token leaves the service.
type LoginResponse struct {
	Token      string    `json:"token"`
	UserID     uuid.UUID `json:"userId"`
	NeedsSetup bool      `json:"needsSetup"`
}

// UserPatch carries the updatable profile fields of PATCH /users/me.
// Nil pointers mean "leave unchanged".
type UserPatch struct {
	Name           *string            `json:"name"`
	Color          *string            `json:"color"`
	Photo          *string            `json:"photo"`
	Theme          *string            `json:"theme"`
	Solo           *bool              `json:"solo"`
	ColorOverrides *map[string]string `json:"colorOverrides"`
}
