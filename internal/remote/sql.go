package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"masquerade/internal/domain"
)

// dialect holds what differs between the SQL backends: driver name, DDL,
// the upsert clause and the placeholder style.
type dialect struct {
	driver      string
	createTable string
	upsert      string
	dollarArgs  bool // $1, $2 instead of ?
	maxConns    int
}

var sqliteDialect = dialect{
	driver: "sqlite",
	createTable: `CREATE TABLE IF NOT EXISTS shared_designs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data TEXT NOT NULL,
		thumbnail TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	upsert: `ON CONFLICT(id) DO UPDATE SET
		name = excluded.name, data = excluded.data, thumbnail = excluded.thumbnail,
		updated_at = excluded.updated_at`,
	maxConns: 1,
}

var postgresDialect = dialect{
	driver: "postgres",
	createTable: `CREATE TABLE IF NOT EXISTS shared_designs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data TEXT NOT NULL,
		thumbnail TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	upsert: `ON CONFLICT(id) DO UPDATE SET
		name = EXCLUDED.name, data = EXCLUDED.data, thumbnail = EXCLUDED.thumbnail,
		updated_at = EXCLUDED.updated_at`,
	dollarArgs: true,
	maxConns:   5,
}

var mysqlDialect = dialect{
	driver: "mysql",
	createTable: `CREATE TABLE IF NOT EXISTS shared_designs (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		data LONGTEXT NOT NULL,
		thumbnail MEDIUMTEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	upsert: `ON DUPLICATE KEY UPDATE
		name = VALUES(name), data = VALUES(data), thumbnail = VALUES(thumbnail),
		updated_at = VALUES(updated_at)`,
	maxConns: 5,
}

// rebind rewrites ? placeholders for dialects that number their arguments.
func (d dialect) rebind(query string) string {
	if !d.dollarArgs {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type sqlRepository struct {
	dialect dialect
	db      *sql.DB
	log     *zap.Logger
}

func openSQL(d dialect, dsn string, log *zap.Logger) (*sqlRepository, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	db.SetMaxOpenConns(d.maxConns)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create shared_designs: %w", err)
	}
	log.Debug("remote repository ready")
	return &sqlRepository{dialect: d, db: db, log: log}, nil
}

func (r *sqlRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *sqlRepository) Publish(ctx context.Context, d domain.SavedDesign) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	q := r.dialect.rebind(`INSERT INTO shared_designs (id, name, data, thumbnail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) ` + r.dialect.upsert)
	if _, err := r.db.ExecContext(ctx, q, d.ID, d.Name, d.Data, d.Thumbnail, d.CreatedAt, d.UpdatedAt); err != nil {
		return fmt.Errorf("publish design: %w", err)
	}
	r.log.Info("design published", zap.String("id", d.ID))
	return nil
}

func (r *sqlRepository) Fetch(ctx context.Context, id string) (*domain.SavedDesign, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	d := &domain.SavedDesign{}
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(
		`SELECT id, name, data, thumbnail, created_at, updated_at FROM shared_designs WHERE id = ?`), id,
	).Scan(&d.ID, &d.Name, &d.Data, &d.Thumbnail, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shared design %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch design: %w", err)
	}
	return d, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]domain.SavedDesign, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, data, thumbnail, created_at, updated_at FROM shared_designs ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list shared designs: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedDesign
	for rows.Next() {
		var d domain.SavedDesign
		if err := rows.Scan(&d.ID, &d.Name, &d.Data, &d.Thumbnail, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shared design: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}
