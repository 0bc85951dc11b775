package auth

import (
	"os"
	"time"
)

// Environment variables read by EnvironmentStore
const (
	EnvUsername   = "INTERPALS_USERNAME"
	EnvSessID     = "INTERPALS_SESSID"
	EnvCSRFCookie = "INTERPALS_CSRF_COOKIE"
)

// EnvironmentStore reads a single session from environment variables.
// It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-backed store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment session. A username that does not
// match INTERPALS_USERNAME is not found.
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	account := e.account()
	if account == nil {
		return nil, ErrSessionNotFound
	}
	if username != "" && username != account.Username {
		return nil, ErrSessionNotFound
	}
	return account, nil
}

// List returns the environment session when one is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	if account := e.account(); account != nil {
		return []*Account{account}, nil
	}
	return []*Account{}, nil
}

// Delete is not supported
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment holds the session of username
func (e *EnvironmentStore) Exists(username string) bool {
	_, err := e.Retrieve(username)
	return err == nil
}

func (e *EnvironmentStore) account() *Account {
	username := os.Getenv(EnvUsername)
	sessID := os.Getenv(EnvSessID)
	csrf := os.Getenv(EnvCSRFCookie)

	if username == "" || sessID == "" || csrf == "" {
		return nil
	}

	// Older than anything written by a login
	return &Account{
		Username:     username,
		SessID:       sessID,
		CSRFCookie:   csrf,
		LastModified: time.Time{},
	}
}
