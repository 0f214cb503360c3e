package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// GetAppState retrieves the opaque settings blob for a scope key. Returns
// nil without error when nothing has been written yet.
func (b *BoardDB) GetAppState(scopeKey string) (json.RawMessage, error) {
	var state []byte
	err := b.DB.QueryRow(`SELECT state FROM app_state WHERE scope_key = $1`, scopeKey).Scan(&state)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving app state: %w", err)
	}
	return state, nil
}

// UpsertAppState replaces the blob wholesale. Last write wins; there is no
// merge or versioning.
func (b *BoardDB) UpsertAppState(scopeKey string, state json.RawMessage) error {
	_, err := b.DB.Exec(`
		INSERT INTO app_state (scope_key, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (scope_key) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		scopeKey, []byte(state), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error upserting app state: %w", err)
	}
	return nil
}

// DeleteAppState removes a scope's blob. Part of the group and account
// deletion cascades.
func (b *BoardDB) DeleteAppState(scopeKey string) error {
	if _, err := b.DB.Exec(`DELETE FROM app_state WHERE scope_key = $1`, scopeKey); err != nil {
		return fmt.Errorf("error deleting app state: %w", err)
	}
	return nil
}
