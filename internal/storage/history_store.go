package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MaxHistoryNodes bounds the checkpoints kept per design.
const MaxHistoryNodes = 40

// HistoryNode is one checkpoint of a design.
type HistoryNode struct {
	ID        string  `json:"id"`
	DesignID  string  `json:"designId"`
	ParentID  *string `json:"parentId"`
	Label     string  `json:"label"`
	Snapshot  string  `json:"snapshot"`
	CreatedAt int64   `json:"createdAt"` // epoch ms
}

// HistoryTree is the full checkpoint tree of one design.
type HistoryTree struct {
	Nodes     []HistoryNode `json:"nodes"`
	CurrentID string        `json:"currentId"`
	RootID    string        `json:"rootId"`
}

// HistoryStore keeps design checkpoints in SQLite.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// LoadTree returns the checkpoint tree for a design, or nil when there is
// none yet.
func (s *HistoryStore) LoadTree(designID string) (*HistoryTree, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, design_id, parent_id, label, snapshot_json, created_at
		 FROM history_nodes WHERE design_id = ? ORDER BY created_at ASC, rowid ASC`, designID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history nodes: %w", err)
	}
	defer rows.Close()

	var nodes []HistoryNode
	var rootID string
	for rows.Next() {
		var n HistoryNode
		if err := rows.Scan(&n.ID, &n.DesignID, &n.ParentID, &n.Label, &n.Snapshot, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history node: %w", err)
		}
		if n.ParentID == nil {
			rootID = n.ID
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	var currentID string
	err = s.db.conn.QueryRow(
		`SELECT current_node_id FROM history_state WHERE design_id = ?`, designID,
	).Scan(&currentID)
	if err != nil {
		currentID = rootID
	}

	return &HistoryTree{Nodes: nodes, CurrentID: currentID, RootID: rootID}, nil
}

// Node fetches a single checkpoint.
func (s *HistoryStore) Node(nodeID string) (*HistoryNode, error) {
	n := &HistoryNode{}
	err := s.db.conn.QueryRow(
		`SELECT id, design_id, parent_id, label, snapshot_json, created_at FROM history_nodes WHERE id = ?`, nodeID,
	).Scan(&n.ID, &n.DesignID, &n.ParentID, &n.Label, &n.Snapshot, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history node: %w", err)
	}
	return n, nil
}

// PushNode records a checkpoint under parentID (empty for a root) and makes
// it current. The oldest nodes are pruned past MaxHistoryNodes.
func (s *HistoryStore) PushNode(designID, nodeID, parentID, label, snapshot string) (*HistoryNode, error) {
	now := time.Now().UnixMilli()

	var pID *string
	if parentID != "" {
		pID = &parentID
	}

	_, err := s.db.conn.Exec(
		`INSERT INTO history_nodes (id, design_id, parent_id, label, snapshot_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nodeID, designID, pID, label, snapshot, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history node: %w", err)
	}
	if err := s.GoTo(designID, nodeID); err != nil {
		return nil, err
	}
	if err := s.prune(designID, MaxHistoryNodes); err != nil {
		return nil, err
	}

	return &HistoryNode{
		ID:        nodeID,
		DesignID:  designID,
		ParentID:  pID,
		Label:     label,
		Snapshot:  snapshot,
		CreatedAt: now,
	}, nil
}

// GoTo moves the current position pointer.
func (s *HistoryStore) GoTo(designID, nodeID string) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO history_state (design_id, current_node_id) VALUES (?, ?)
		 ON CONFLICT(design_id) DO UPDATE SET current_node_id = excluded.current_node_id`,
		designID, nodeID,
	)
	if err != nil {
		return fmt.Errorf("update history state: %w", err)
	}
	return nil
}

// ClearDesign removes all checkpoints of a design.
func (s *HistoryStore) ClearDesign(designID string) error {
	if _, err := s.db.conn.Exec(`DELETE FROM history_state WHERE design_id = ?`, designID); err != nil {
		return err
	}
	_, err := s.db.conn.Exec(`DELETE FROM history_nodes WHERE design_id = ?`, designID)
	return err
}

// prune removes the oldest nodes past maxNodes, re-parenting their children
// so the tree stays connected. The current node is never removed.
func (s *HistoryStore) prune(designID string, maxNodes int) error {
	var count int
	if err := s.db.conn.QueryRow(`SELECT COUNT(*) FROM history_nodes WHERE design_id = ?`, designID).Scan(&count); err != nil {
		return fmt.Errorf("count history nodes: %w", err)
	}
	if count <= maxNodes {
		return nil
	}

	var currentID string
	s.db.conn.QueryRow(`SELECT current_node_id FROM history_state WHERE design_id = ?`, designID).Scan(&currentID)

	// Collect ids first; with a single connection an open cursor would block
	// the writes below.
	rows, err := s.db.conn.Query(
		`SELECT id, parent_id FROM history_nodes WHERE design_id = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT ?`, designID, count-maxNodes,
	)
	if err != nil {
		return fmt.Errorf("select history nodes to prune: %w", err)
	}
	type victim struct {
		id     string
		parent sql.NullString
	}
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.id, &v.parent); err != nil {
			rows.Close()
			return err
		}
		if v.id != currentID {
			victims = append(victims, v)
		}
	}
	rows.Close()

	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	defer tx.Rollback()
	for _, v := range victims {
		// Read the parent again: an earlier victim may have been re-parented.
		var parent sql.NullString
		if err := tx.QueryRow(`SELECT parent_id FROM history_nodes WHERE id = ?`, v.id).Scan(&parent); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		var newParent any
		if parent.Valid {
			newParent = parent.String
		}
		if _, err := tx.Exec(`UPDATE history_nodes SET parent_id = ? WHERE parent_id = ?`, newParent, v.id); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM history_nodes WHERE id = ?`, v.id); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
	}
	return tx.Commit()
}
