package secret

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// SecretStore holds remote repository passwords outside the SQLite database.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// RemoteKey is the key a remote connection's password is stored under.
func RemoteKey(remoteID string) string {
	return "remote:" + remoteID
}

// New picks a backend by name: "keychain", "env" or "memory". An empty name
// means the keychain on macOS and the environment elsewhere.
func New(backend string) (SecretStore, error) {
	if backend == "" {
		backend = "env"
		if runtime.GOOS == "darwin" {
			backend = "keychain"
		}
	}
	switch backend {
	case "keychain":
		return NewKeychainStore(), nil
	case "env":
		return NewEnvStore("MASQUERADE_SECRET_"), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown secret backend: %s", backend)
	}
}

// MemoryStore keeps secrets for the life of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// EnvStore reads secrets from environment variables, e.g. remote:abc-1 is
// MASQUERADE_SECRET_REMOTE_ABC_1. Values set at runtime shadow the
// environment but are not exported.
type EnvStore struct {
	prefix string
	mem    *MemoryStore
}

func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{prefix: prefix, mem: NewMemoryStore()}
}

func (e *EnvStore) varName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return e.prefix + name
}

func (e *EnvStore) Set(key string, value []byte) error {
	return e.mem.Set(key, value)
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	if v, _ := e.mem.Get(key); v != nil {
		return v, nil
	}
	if v, ok := os.LookupEnv(e.varName(key)); ok {
		return []byte(v), nil
	}
	return nil, nil
}

func (e *EnvStore) Delete(key string) error {
	return e.mem.Delete(key)
}
