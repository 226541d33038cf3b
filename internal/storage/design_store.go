package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"masquerade/internal/domain"
)

// DesignStore implements domain.DesignStore using SQLite.
type DesignStore struct {
	db  *DB
	now func() time.Time
}

func NewDesignStore(db *DB) *DesignStore {
	return &DesignStore{db: db, now: time.Now}
}

// SaveDesign inserts or replaces a design. An existing row keeps its
// created_at; updated_at is always set to now. d is updated to match.
func (s *DesignStore) SaveDesign(d *domain.SavedDesign) error {
	now := s.now().UnixMilli()
	_, err := s.db.conn.Exec(
		`INSERT INTO designs (id, name, data, thumbnail, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			thumbnail = excluded.thumbnail,
			updated_at = excluded.updated_at`,
		d.ID, d.Name, d.Data, d.Thumbnail, now, now,
	)
	if err != nil {
		return fmt.Errorf("save design: %w", err)
	}
	d.UpdatedAt = now
	return s.db.conn.QueryRow(`SELECT created_at FROM designs WHERE id = ?`, d.ID).Scan(&d.CreatedAt)
}

// GetDesign returns nil, nil when no design has the id.
func (s *DesignStore) GetDesign(id string) (*domain.SavedDesign, error) {
	d := &domain.SavedDesign{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, data, thumbnail, created_at, updated_at FROM designs WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Data, &d.Thumbnail, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

// ListDesigns returns every design, least recently updated first.
func (s *DesignStore) ListDesigns() ([]domain.SavedDesign, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, data, thumbnail, created_at, updated_at FROM designs ORDER BY updated_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var designs []domain.SavedDesign
	for rows.Next() {
		var d domain.SavedDesign
		if err := rows.Scan(&d.ID, &d.Name, &d.Data, &d.Thumbnail, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

// DeleteDesign removes a design and its history. Unknown ids are not an error.
func (s *DesignStore) DeleteDesign(id string) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM history_state WHERE design_id = ?`,
		`DELETE FROM history_nodes WHERE design_id = ?`,
		`DELETE FROM designs WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete design: %w", err)
		}
	}
	return tx.Commit()
}

// Fingerprint summarises the table so pollers can notice writes made by
// another process.
func (s *DesignStore) Fingerprint() (string, error) {
	var count int
	var maxUpdated int64
	err := s.db.conn.QueryRow(`SELECT COUNT(*), COALESCE(MAX(updated_at), 0) FROM designs`).Scan(&count, &maxUpdated)
	if err != nil {
		return "", fmt.Errorf("designs fingerprint: %w", err)
	}
	return fmt.Sprintf("%d:%d", count, maxUpdated), nil
}
