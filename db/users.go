package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
)

const userColumns = `id, username, color, photo, token, group_id, solo, theme, color_overrides, notifications, created_at`

// CreateUser inserts a new user document.
func (b *BoardDB) CreateUser(user models.User) error {
	overrides, err := json.Marshal(user.ColorOverrides)
	if err != nil {
		return fmt.Errorf("error serializing color overrides: %w", err)
	}
	notifications, err := marshalMailbox(user.Notifications)
	if err != nil {
		return err
	}

	_, err = b.DB.Exec(`
		INSERT INTO users (id, username, color, photo, token, group_id, solo, theme, color_overrides, notifications, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID, user.Username, user.Color, user.Photo, user.Token, user.GroupID,
		user.Solo, user.Theme, overrides, notifications, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id. Returns nil without error if the user
// does not exist.
func (b *BoardDB) GetUser(userID uuid.UUID) (*models.User, error) {
	row := b.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by display name. Names are unique by
// convention only; the first match wins.
func (b *BoardDB) GetUserByUsername(username string) (*models.User, error) {
	row := b.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1 ORDER BY created_at LIMIT 1`, username)
	return scanUser(row)
}

// GetUsersByGroup retrieves every member of a group, ordered by creation
// time for a stable listing.
func (b *BoardDB) GetUsersByGroup(groupID uuid.UUID) ([]models.User, error) {
	rows, err := b.DB.Query(`SELECT `+userColumns+` FROM users WHERE group_id = $1 ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial profile patch. Nil patch fields are left
// untouched.
func (b *BoardDB) UpdateUser(userID uuid.UUID, patch models.UserPatch) error {
	set := ""
	args := []interface{}{userID}
	add := func(column string, value interface{}) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if patch.Name != nil {
		add("username", *patch.Name)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if patch.Theme != nil {
		add("theme", *patch.Theme)
	}
	if patch.Solo != nil {
		add("solo", *patch.Solo)
	}
	if patch.ColorOverrides != nil {
		overrides, err := json.Marshal(*patch.ColorOverrides)
		if err != nil {
			return fmt.Errorf("error serializing color overrides: %w", err)
		}
		add("color_overrides", overrides)
	}
	if set == "" {
		return nil
	}

	if _, err := b.DB.Exec(`UPDATE users SET `+set+` WHERE id = $1`, args...); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// SetUserScope rewrites the user's membership back-reference. Joining or
// creating a group sets groupID and clears solo; leaving clears both.
func (b *BoardDB) SetUserScope(userID uuid.UUID, groupID *uuid.UUID, solo bool) error {
	_, err := b.DB.Exec(`UPDATE users SET group_id = $2, solo = $3 WHERE id = $1`, userID, groupID, solo)
	if err != nil {
		return fmt.Errorf("error updating user scope: %w", err)
	}
	return nil
}

// ClearGroupFromUsers bulk-clears the back-reference of every user still
// pointing at the group. Run before the group document is deleted so a
// crash mid-cascade leaves dangling tasks, never dangling users.
func (b *BoardDB) ClearGroupFromUsers(groupID uuid.UUID) error {
	_, err := b.DB.Exec(`UPDATE users SET group_id = NULL, solo = FALSE WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("error clearing group from users: %w", err)
	}
	return nil
}

// AppendNotification appends one entry to the user's mailbox.
func (b *BoardDB) AppendNotification(userID uuid.UUID, n models.Notification) error {
	entry, err := json.Marshal([]models.Notification{n})
	if err != nil {
		return fmt.Errorf("error serializing notification: %w", err)
	}
	_, err = b.DB.Exec(`UPDATE users SET notifications = notifications || $2::jsonb WHERE id = $1`, userID, entry)
	if err != nil {
		return fmt.Errorf("error appending notification: %w", err)
	}
	return nil
}

// ClearNotifications empties the user's mailbox.
func (b *BoardDB) ClearNotifications(userID uuid.UUID) error {
	_, err := b.DB.Exec(`UPDATE users SET notifications = '[]'::jsonb WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error clearing notifications: %w", err)
	}
	return nil
}

// DeleteUser removes the user document.
func (b *BoardDB) DeleteUser(userID uuid.UUID) error {
	if _, err := b.DB.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func marshalMailbox(notifications []models.Notification) ([]byte, error) {
	if notifications == nil {
		notifications = []models.Notification{}
	}
	data, err := json.Marshal(notifications)
	if err != nil {
		return nil, fmt.Errorf("error serializing mailbox: %w", err)
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		photo        sql.NullString
		groupID      sql.NullString
		overridesRaw []byte
		mailboxRaw   []byte
	)

	err := row.Scan(&user.ID, &user.Username, &user.Color, &photo, &user.Token,
		&groupID, &user.Solo, &user.Theme, &overridesRaw, &mailboxRaw, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	if photo.Valid {
		user.Photo = &photo.String
	}
	if groupID.Valid {
		gid, err := uuid.Parse(groupID.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing user group id: %w", err)
		}
		user.GroupID = &gid
	}
	if err := json.Unmarshal(overridesRaw, &user.ColorOverrides); err != nil {
		return nil, fmt.Errorf("error parsing color overrides: %w", err)
	}
	if err := json.Unmarshal(mailboxRaw, &user.Notifications); err != nil {
		return nil, fmt.Errorf("error parsing mailbox: %w", err)
	}

	return &user, nil
}

func scanUserRows(rows *sql.Rows) (*models.User, error) {
	user, err := scanUser(rows)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("error scanning user: unexpected empty row")
	}
	return user, nil
}
