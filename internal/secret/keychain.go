package secret

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	keychainService = "masquerade-remotes"
	keychainLabel   = "Masquerade remote repository"

	// exit status of `security` when no item matches
	errSecItemNotFound = 44
)

// KeychainStore keeps remote passwords in the macOS login keychain through
// the `security` tool, one generic password per remote.
type KeychainStore struct {
	bin string
}

func NewKeychainStore() *KeychainStore {
	return &KeychainStore{bin: "security"}
}

func (k *KeychainStore) run(args ...string) ([]byte, error) {
	args = append(args, "-s", keychainService)
	return exec.Command(k.bin, args...).Output()
}

func (k *KeychainStore) Set(key string, value []byte) error {
	_, err := k.run("add-generic-password", "-U", "-a", key, "-l", keychainLabel, "-w", string(value))
	if err != nil {
		return fmt.Errorf("keychain set %s: %w", key, describe(err))
	}
	return nil
}

// Get returns nil without error when no password is stored for key.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	out, err := k.run("find-generic-password", "-a", key, "-w")
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain get %s: %w", key, describe(err))
	}
	return []byte(strings.TrimRight(string(out), "\n")), nil
}

func (k *KeychainStore) Delete(key string) error {
	_, err := k.run("delete-generic-password", "-a", key)
	if err != nil && !notFound(err) {
		return fmt.Errorf("keychain delete %s: %w", key, describe(err))
	}
	return nil
}

func notFound(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == errSecItemNotFound
}

// describe folds the tool's stderr into the error.
func describe(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
	}
	return err
}
