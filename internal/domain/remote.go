package domain

import "time"

type RemoteDriver string

const (
	RemotePostgres RemoteDriver = "postgres"
	RemoteMySQL    RemoteDriver = "mysql"
	RemoteSQLite   RemoteDriver = "sqlite"
	RemoteMongoDB  RemoteDriver = "mongodb"
)

// RemoteConnection describes a team repository designs can be published to.
// The password lives in the SecretStore, never in this record.
type RemoteConnection struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Driver    RemoteDriver `json:"driver"`
	Host      string       `json:"host"` // hostname, or the file path for sqlite
	Port      int          `json:"port"`
	Database  string       `json:"database"`
	Username  string       `json:"username"`
	SSLMode   string       `json:"sslMode"`
	URI       string       `json:"uri,omitempty"` // full mongodb:// URI, overrides host/port
	CreatedAt time.Time    `json:"createdAt"`
}

type RemoteStore interface {
	CreateRemote(r *RemoteConnection) error
	GetRemote(id string) (*RemoteConnection, error)
	ListRemotes() ([]RemoteConnection, error)
	DeleteRemote(id string) error
}
