package db

import (
	"database/sql"
	"fmt"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const groupColumns = `id, name, photo, creator_id, member_ids, invite_code, created_at`

// CreateGroup inserts a new group document.
func (b *BoardDB) CreateGroup(group models.Group) error {
	_, err := b.DB.Exec(`
		INSERT INTO groups (id, name, photo, creator_id, member_ids, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		group.ID, group.Name, group.Photo, group.CreatorID,
		pq.Array(memberIDStrings(group.MemberIDs)), group.InviteCode, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by id. Returns nil without error if the group
// does not exist.
func (b *BoardDB) GetGroup(groupID uuid.UUID) (*models.Group, error) {
	row := b.DB.QueryRow(`SELECT `+groupColumns+` FROM groups WHERE id = $1`, groupID)
	return scanGroup(row)
}

// GetGroupByInviteCode retrieves a group by its invite code. Codes are
// stored case-normalized upper; callers normalize before the lookup.
func (b *BoardDB) GetGroupByInviteCode(code string) (*models.Group, error) {
	row := b.DB.QueryRow(`SELECT `+groupColumns+` FROM groups WHERE invite_code = $1`, code)
	return scanGroup(row)
}

// AddGroupMember appends the user to the member list. A no-op when the
// user is already listed, so joining twice never duplicates.
func (b *BoardDB) AddGroupMember(groupID, userID uuid.UUID) error {
	_, err := b.DB.Exec(`
		UPDATE groups SET member_ids = array_append(member_ids, $2)
		WHERE id = $1 AND NOT $2 = ANY(member_ids)`,
		groupID, userID.String())
	if err != nil {
		return fmt.Errorf("error adding group member: %w", err)
	}
	return nil
}

// RemoveGroupMember pulls the user from the member list.
func (b *BoardDB) RemoveGroupMember(groupID, userID uuid.UUID) error {
	_, err := b.DB.Exec(`
		UPDATE groups SET member_ids = array_remove(member_ids, $2) WHERE id = $1`,
		groupID, userID.String())
	if err != nil {
		return fmt.Errorf("error removing group member: %w", err)
	}
	return nil
}

// UpdateGroupDetails applies a partial patch to name and photo.
func (b *BoardDB) UpdateGroupDetails(groupID uuid.UUID, patch models.GroupPatch) error {
	set := ""
	args := []interface{}{groupID}
	add := func(column string, value interface{}) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if set == "" {
		return nil
	}

	if _, err := b.DB.Exec(`UPDATE groups SET `+set+` WHERE id = $1`, args...); err != nil {
		return fmt.Errorf("error updating group: %w", err)
	}
	return nil
}

// DeleteGroup removes the group document. Dependent rows (user
// back-references, tasks) must be cleared first; see the cascade in the
// group service.
func (b *BoardDB) DeleteGroup(groupID uuid.UUID) error {
	if _, err := b.DB.Exec(`DELETE FROM groups WHERE id = $1`, groupID); err != nil {
		return fmt.Errorf("error deleting group: %w", err)
	}
	return nil
}

func memberIDStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var (
		group   models.Group
		photo   sql.NullString
		members pq.StringArray
	)

	err := row.Scan(&group.ID, &group.Name, &photo, &group.CreatorID,
		&members, &group.InviteCode, &group.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning group: %w", err)
	}

	if photo.Valid {
		group.Photo = &photo.String
	}
	group.MemberIDs = make([]uuid.UUID, 0, len(members))
	for _, raw := range members {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("error parsing member id: %w", err)
		}
		group.MemberIDs = append(group.MemberIDs, id)
	}

	return &group, nil
}
