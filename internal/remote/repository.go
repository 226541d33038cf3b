package remote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"masquerade/internal/domain"
)

// Repository is a team store that designs are published to and pulled from.
type Repository interface {
	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Publish inserts the design or replaces the copy with the same id.
	Publish(ctx context.Context, d domain.SavedDesign) error

	// Fetch returns the published design, or an error wrapping
	// domain.ErrNotFound.
	Fetch(ctx context.Context, id string) (*domain.SavedDesign, error)

	// List returns every published design, most recently updated first.
	List(ctx context.Context) ([]domain.SavedDesign, error)

	Close() error
}

// Open connects to the repository described by conn. The password comes from
// the secret store and is never part of the connection record.
func Open(conn *domain.RemoteConnection, password string, log *zap.Logger) (Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("remote", conn.Name), zap.String("driver", string(conn.Driver)))

	switch conn.Driver {
	case domain.RemoteSQLite:
		return openSQL(sqliteDialect, sqliteDSN(conn), log)
	case domain.RemoteMySQL:
		return openSQL(mysqlDialect, buildMySQLDSN(conn, password), log)
	case domain.RemotePostgres:
		return openSQL(postgresDialect, buildPostgresDSN(conn, password), log)
	case domain.RemoteMongoDB:
		return openMongo(conn, password, log)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
