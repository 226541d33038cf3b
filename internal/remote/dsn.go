package remote

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"masquerade/internal/domain"
)

func buildPostgresDSN(conn *domain.RemoteConnection, password string) string {
	port := conn.Port
	if port == 0 {
		port = 5432
	}
	sslMode := conn.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		conn.Host, port, conn.Username, password, conn.Database, sslMode,
	)
}

// Format: user:password@tcp(host:port)/dbname?parseTime=true
func buildMySQLDSN(conn *domain.RemoteConnection, password string) string {
	port := conn.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		conn.Username, password, conn.Host, port, conn.Database,
	)
	if conn.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

// sqliteDSN opens a shared file (typically on a network drive) in WAL mode
// with a busy timeout, since several desktops may write to it.
func sqliteDSN(conn *domain.RemoteConnection) string {
	return conn.Host + "?_journal_mode=WAL&_busy_timeout=5000"
}
