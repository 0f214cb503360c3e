package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AssigneeAll is the sentinel assignee meaning "every group member".
const AssigneeAll = "all"

// ReservedTaskFields are the task attributes owned by the service. They are
// stamped at creation and stripped from any incoming patch so a client can
// never move a task across scopes or rewrite its identity.
var ReservedTaskFields = []string{"id", "groupId", "ownerId", "creatorId", "createdAt"}

// Task is a board item. The service is schema-agnostic about task content:
// everything a client sends lives in Fields, and the server only reasons
// about the "title", "assignee" and "done" keys. Scope is stamped once at
// creation: either GroupID is set (group task) or OwnerID is set (solo
// task), never both.
type Task struct {
	ID        uuid.UUID
	GroupID   *uuid.UUID
	OwnerID   *uuid.UUID
	CreatorID uuid.UUID
	Fields    map[string]interface{}
	CreatedAt time.Time
}

// Title returns the task title, or "" if the client never set one.
func (t Task) Title() string {
	s, _ := t.Fields["title"].(string)
	return s
}

// Assignee returns the assignee field: a user id string, AssigneeAll, or ""
// when unset.
func (t Task) Assignee() string {
	s, _ := t.Fields["assignee"].(string)
	return s
}

// Done reports whether the task is marked completed.
func (t Task) Done() bool {
	b, _ := t.Fields["done"].(bool)
	return b
}

// MarshalJSON flattens the client-defined fields and the service-owned
// attributes into a single object.
func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(t.Fields)+len(ReservedTaskFields))
	for k, v := range t.Fields {
		out[k] = v
	}
	out["id"] = t.ID
	out["groupId"] = t.GroupID
	out["ownerId"] = t.OwnerID
	out["creatorId"] = t.CreatorID
	out["createdAt"] = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(out)
}

// UnmarshalJSON splits a flattened task object back into service-owned
// attributes and client-defined fields.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &t.ID); err != nil {
			return err
		}
	}
	if v, ok := raw["groupId"]; ok {
		if err := json.Unmarshal(v, &t.GroupID); err != nil {
			return err
		}
	}
	if v, ok := raw["ownerId"]; ok {
		if err := json.Unmarshal(v, &t.OwnerID); err != nil {
			return err
		}
	}
	if v, ok := raw["creatorId"]; ok {
		if err := json.Unmarshal(v, &t.CreatorID); err != nil {
			return err
		}
	}
	if v, ok := raw["createdAt"]; ok {
		if err := json.Unmarshal(v, &t.CreatedAt); err != nil {
			return err
		}
	}
	for _, k := range ReservedTaskFields {
		delete(raw, k)
	}
	t.Fields = make(map[string]interface{}, len(raw))
	for k, v := range raw {
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		t.Fields[k] = val
	}
	return nil
}
