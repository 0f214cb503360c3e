package models

import "github.com/google/uuid"

// Scope is the filter bounding which tasks a user can see and write. It is
// a tagged variant: exactly one of GroupID (member scope) or OwnerID (solo
// scope) is set. A user with no group resolves to their own solo scope even
// before they have confirmed solo mode, so the unconfigured state is not
// representable here.
type Scope struct {
	GroupID *uuid.UUID
	OwnerID *uuid.UUID
}

// IsGroup reports whether the scope covers a shared group board.
func (s Scope) IsGroup() bool {
	return s.GroupID != nil
}

// Contains reports whether a task carries this scope's stamp.
func (s Scope) Contains(t Task) bool {
	if s.GroupID != nil {
		return t.GroupID != nil && *t.GroupID == *s.GroupID
	}
	return t.GroupID == nil && t.OwnerID != nil && *t.OwnerID == *s.OwnerID
}

// Key returns the app-state key for the scope: the group id for members,
// the user id for solo users.
func (s Scope) Key() string {
	if s.GroupID != nil {
		return s.GroupID.String()
	}
	return s.OwnerID.String()
}

// ResolveScope derives a user's scope from their membership state. It is
// the single source of truth for task visibility and is used identically by
// listing, creation, mutation and polling.
func ResolveScope(u User) Scope {
	if u.GroupID != nil {
		gid := *u.GroupID
		return Scope{GroupID: &gid}
	}
	uid := u.ID
	return Scope{OwnerID: &uid}
}
