package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const keyVisited = "has_visited"

// SettingsStore is a key/value view of the app_settings table.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetInt returns the stored integer, or def when the key is missing or not
// a number.
func (s *SettingsStore) GetInt(key string, def int) int {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *SettingsStore) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

// HasVisited reports whether the app has completed a session before. The
// result decides whether the wizard opens at boot.
func (s *SettingsStore) HasVisited() (bool, error) {
	v, ok, err := s.Get(keyVisited)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

func (s *SettingsStore) MarkVisited() error {
	return s.Set(keyVisited, "true")
}
