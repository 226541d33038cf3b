package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"masquerade/internal/domain"
)

// RemoteStore manages team repository connection records.
type RemoteStore struct {
	db *DB
}

func NewRemoteStore(db *DB) *RemoteStore {
	return &RemoteStore{db: db}
}

func (s *RemoteStore) CreateRemote(r *domain.RemoteConnection) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`INSERT INTO remotes (id, name, driver, host, port, database_name, username, ssl_mode, uri, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Driver, r.Host, r.Port, r.Database, r.Username, r.SSLMode, r.URI, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create remote: %w", err)
	}
	return nil
}

func (s *RemoteStore) GetRemote(id string) (*domain.RemoteConnection, error) {
	r := &domain.RemoteConnection{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, uri, created_at
		 FROM remotes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Driver, &r.Host, &r.Port, &r.Database, &r.Username, &r.SSLMode, &r.URI, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("remote %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get remote: %w", err)
	}
	return r, nil
}

func (s *RemoteStore) ListRemotes() ([]domain.RemoteConnection, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, uri, created_at
		 FROM remotes ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	defer rows.Close()

	var out []domain.RemoteConnection
	for rows.Next() {
		var r domain.RemoteConnection
		if err := rows.Scan(&r.ID, &r.Name, &r.Driver, &r.Host, &r.Port, &r.Database, &r.Username, &r.SSLMode, &r.URI, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *RemoteStore) DeleteRemote(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM remotes WHERE id = ?`, id)
	return err
}
