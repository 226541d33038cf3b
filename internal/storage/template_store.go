package storage

import (
	"fmt"

	"masquerade/internal/domain"
)

// TemplateStore implements domain.TemplateStore for user-saved templates.
type TemplateStore struct {
	db *DB
}

func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) SaveTemplate(t *domain.SavedTemplate) error {
	if t.Category == "" {
		t.Category = string(domain.TemplateBlank)
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO templates (id, name, category, data, thumbnail) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			data = excluded.data,
			thumbnail = excluded.thumbnail`,
		t.ID, t.Name, t.Category, t.Data, t.Thumbnail,
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (s *TemplateStore) ListTemplates() ([]domain.SavedTemplate, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, category, data, thumbnail FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedTemplate
	for rows.Next() {
		var t domain.SavedTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Data, &t.Thumbnail); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TemplateStore) DeleteTemplate(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM templates WHERE id = ?`, id)
	return err
}
