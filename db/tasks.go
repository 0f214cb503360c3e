package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/choreboard/choreboard-services/models"
	"github.com/google/uuid"
)

const taskColumns = `id, group_id, owner_id, creator_id, fields, created_at`

// GetTasks retrieves every task inside the scope, ordered by creation time.
func (b *BoardDB) GetTasks(scope models.Scope) ([]models.Task, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if scope.GroupID != nil {
		rows, err = b.DB.Query(`SELECT `+taskColumns+` FROM tasks WHERE group_id = $1 ORDER BY created_at, id`, *scope.GroupID)
	} else {
		rows, err = b.DB.Query(`SELECT `+taskColumns+` FROM tasks WHERE group_id IS NULL AND owner_id = $1 ORDER BY created_at, id`, *scope.OwnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id. Returns nil without error if the task
// does not exist.
func (b *BoardDB) GetTask(taskID uuid.UUID) (*models.Task, error) {
	row := b.DB.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	return scanTask(row)
}

// CreateTask inserts a new task document with its scope stamp.
func (b *BoardDB) CreateTask(task models.Task) error {
	fields, err := json.Marshal(task.Fields)
	if err != nil {
		return fmt.Errorf("error serializing task fields: %w", err)
	}

	_, err = b.DB.Exec(`
		INSERT INTO tasks (id, group_id, owner_id, creator_id, fields, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.GroupID, task.OwnerID, task.CreatorID, fields, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting task: %w", err)
	}
	return nil
}

// UpdateTaskFields replaces the task's content wholesale. The caller merges
// the patch first; concurrent writers race and the last write wins.
func (b *BoardDB) UpdateTaskFields(taskID uuid.UUID, fields map[string]interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("error serializing task fields: %w", err)
	}
	if _, err := b.DB.Exec(`UPDATE tasks SET fields = $2 WHERE id = $1`, taskID, data); err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	return nil
}

// DeleteTask removes a task by id.
func (b *BoardDB) DeleteTask(taskID uuid.UUID) error {
	if _, err := b.DB.Exec(`DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// DeleteTasksByGroup bulk-deletes every task scoped to the group. Part of
// the group deletion cascade.
func (b *BoardDB) DeleteTasksByGroup(groupID uuid.UUID) error {
	if _, err := b.DB.Exec(`DELETE FROM tasks WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("error deleting group tasks: %w", err)
	}
	return nil
}

// DeleteTasksBySoloOwner bulk-deletes a user's solo tasks. Part of the
// account deletion cascade.
func (b *BoardDB) DeleteTasksBySoloOwner(ownerID uuid.UUID) error {
	if _, err := b.DB.Exec(`DELETE FROM tasks WHERE group_id IS NULL AND owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("error deleting solo tasks: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task      models.Task
		groupID   sql.NullString
		ownerID   sql.NullString
		fieldsRaw []byte
	)

	err := row.Scan(&task.ID, &groupID, &ownerID, &task.CreatorID, &fieldsRaw, &task.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning task: %w", err)
	}

	if groupID.Valid {
		gid, err := uuid.Parse(groupID.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing task group id: %w", err)
		}
		task.GroupID = &gid
	}
	if ownerID.Valid {
		oid, err := uuid.Parse(ownerID.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing task owner id: %w", err)
		}
		task.OwnerID = &oid
	}
	if err := json.Unmarshal(fieldsRaw, &task.Fields); err != nil {
		return nil, fmt.Errorf("error parsing task fields: %w", err)
	}

	return &task, nil
}
