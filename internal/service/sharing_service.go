package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"masquerade/internal/domain"
	"masquerade/internal/remote"
	"masquerade/internal/secret"
)

// ─────────────────────────────────────────────────────────────
// Sharing Service: team repositories
// ─────────────────────────────────────────────────────────────

// ConfiguredRemoteID is the id of the remote declared in the config file.
const ConfiguredRemoteID = "configured"

// CreateRemoteInput is the service-layer DTO for creating connections.
type CreateRemoteInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	URI      string `json:"uri"`
}

// SharingService publishes designs to team repositories and pulls them back.
// Live repositories are kept open and reused.
type SharingService struct {
	remotes domain.RemoteStore
	designs domain.DesignStore
	secrets secret.SecretStore
	emitter EventEmitter
	log     *zap.Logger
	open    func(*domain.RemoteConnection, string, *zap.Logger) (remote.Repository, error)

	mu    sync.Mutex
	repos map[string]remote.Repository
}

func NewSharingService(
	remotes domain.RemoteStore,
	designs domain.DesignStore,
	secrets secret.SecretStore,
	emitter EventEmitter,
	log *zap.Logger,
) *SharingService {
	if log == nil {
		log = zap.NewNop()
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &SharingService{
		remotes: remotes,
		designs: designs,
		secrets: secrets,
		emitter: emitter,
		log:     log.Named("sharing"),
		open:    remote.Open,
		repos:   make(map[string]remote.Repository),
	}
}

// ── Remote CRUD ────────────────────────────────────────────

func (s *SharingService) ListRemotes() ([]domain.RemoteConnection, error) {
	return s.remotes.ListRemotes()
}

func (s *SharingService) CreateRemote(input CreateRemoteInput) (*domain.RemoteConnection, error) {
	driver := domain.RemoteDriver(input.Driver)
	switch driver {
	case domain.RemotePostgres, domain.RemoteMySQL, domain.RemoteSQLite, domain.RemoteMongoDB:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", input.Driver)
	}
	conn := &domain.RemoteConnection{
		Name:     input.Name,
		Driver:   driver,
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
		URI:      input.URI,
	}
	if err := s.remotes.CreateRemote(conn); err != nil {
		return nil, fmt.Errorf("create remote: %w", err)
	}
	if input.Password != "" && s.secrets != nil {
		if err := s.secrets.Set(secret.RemoteKey(conn.ID), []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store remote password: %w", err)
		}
	}
	return conn, nil
}

// EnsureConfigured records the remote declared in the config file under
// ConfiguredRemoteID, unless one already exists.
func (s *SharingService) EnsureConfigured(conn domain.RemoteConnection) error {
	_, err := s.remotes.GetRemote(ConfiguredRemoteID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	conn.ID = ConfiguredRemoteID
	if conn.Name == "" {
		conn.Name = "Team"
	}
	return s.remotes.CreateRemote(&conn)
}

func (s *SharingService) DeleteRemote(id string) error {
	s.drop(id)
	if s.secrets != nil {
		_ = s.secrets.Delete(secret.RemoteKey(id))
	}
	return s.remotes.DeleteRemote(id)
}

// ── Sharing ────────────────────────────────────────────────

func (s *SharingService) TestRemote(ctx context.Context, id string) error {
	repo, err := s.repo(id)
	if err != nil {
		return err
	}
	return repo.Ping(ctx)
}

// Publish pushes a saved design to a remote.
func (s *SharingService) Publish(ctx context.Context, remoteID, designID string) error {
	d, err := s.designs.GetDesign(designID)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("design %s: %w", designID, domain.ErrNotFound)
	}
	repo, err := s.repo(remoteID)
	if err != nil {
		return err
	}
	return repo.Publish(ctx, *d)
}

// ListShared returns the designs published to a remote, newest first.
func (s *SharingService) ListShared(ctx context.Context, remoteID string) ([]domain.SavedDesign, error) {
	repo, err := s.repo(remoteID)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// Pull copies a published design into the local store, replacing any local
// copy with the same id.
func (s *SharingService) Pull(ctx context.Context, remoteID, designID string) (*domain.SavedDesign, error) {
	repo, err := s.repo(remoteID)
	if err != nil {
		return nil, err
	}
	d, err := repo.Fetch(ctx, designID)
	if err != nil {
		return nil, err
	}
	if err := s.designs.SaveDesign(d); err != nil {
		return nil, err
	}
	s.log.Info("design pulled", zap.String("remote", remoteID), zap.String("id", d.ID))
	s.emitter.Emit(ctx, EventDesignImported, d)
	return d, nil
}

// ── Repository pool ────────────────────────────────────────

func (s *SharingService) repo(id string) (remote.Repository, error) {
	s.mu.Lock()
	if r, ok := s.repos[id]; ok {
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	conn, err := s.remotes.GetRemote(id)
	if err != nil {
		return nil, err
	}

	var password string
	if s.secrets != nil {
		if pw, err := s.secrets.Get(secret.RemoteKey(id)); err == nil {
			password = string(pw)
		}
	}

	r, err := s.open(conn, password, s.log)
	if err != nil {
		return nil, fmt.Errorf("open remote %s: %w", conn.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.repos[id]; ok {
		r.Close()
		return existing, nil
	}
	s.repos[id] = r
	return r, nil
}

func (s *SharingService) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.repos[id]; ok {
		_ = r.Close()
		delete(s.repos, id)
	}
}

// Close tears down all open repositories.
func (s *SharingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.repos {
		_ = r.Close()
		delete(s.repos, id)
	}
}
