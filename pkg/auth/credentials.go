// Package auth persists logged-in sessions so the site's login handshake
// does not have to run for every command.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"interpals/pkg/config"
	"interpals/pkg/session"
)

// Account is a stored session. Its JSON form is the session document plus
// a modification time.
type Account struct {
	Username     string    `json:"username"`
	SessID       string    `json:"interpals_sessid"`
	CSRFCookie   string    `json:"csrf_cookieV2"`
	LastModified time.Time `json:"last_modified"`
}

// NewAccount wraps a session for storage
func NewAccount(s *session.Session) *Account {
	doc := session.Serialize(s)
	return &Account{
		Username:   doc[session.KeyUsername],
		SessID:     doc[session.KeySessID],
		CSRFCookie: doc[session.KeyCSRF],
	}
}

// Validate rejects accounts that could not authenticate a request
func (a *Account) Validate() error {
	switch {
	case a.Username == "":
		return fmt.Errorf("%w: username is empty", ErrInvalidSession)
	case a.SessID == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidSession, session.CookieSessID)
	case a.CSRFCookie == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidSession, session.CookieCSRF)
	}
	return nil
}

// Session rebuilds the stored session, rejecting incomplete records
func (a *Account) Session() (*session.Session, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return session.Deserialize(session.Document{
		session.KeyUsername: a.Username,
		session.KeySessID:   a.SessID,
		session.KeyCSRF:     a.CSRFCookie,
	})
}

// SessionStore is a place sessions can be kept
type SessionStore interface {
	// Store saves the session of an account
	Store(account *Account) error

	// Retrieve gets the session stored for username
	Retrieve(username string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes the session stored for username
	Delete(username string) error

	// Exists checks if a session is stored for username
	Exists(username string) bool
}

// Manager stores sessions in the first store that accepts them and reads
// them from the first store that has them
type Manager struct {
	stores []SessionStore
}

// NewManager builds a manager for the configured store kind: "keyring",
// "file", "env", or "auto" for all three in that order
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	kind := strings.ToLower(cfg.Store)
	var stores []SessionStore

	if kind == "auto" || kind == "keyring" {
		keyringStore, err := NewKeyringStore()
		if err == nil {
			stores = append(stores, keyringStore)
		} else if kind == "keyring" {
			return nil, err
		}
	}

	if kind == "auto" || kind == "file" {
		path := cfg.File
		if path == "" {
			configDir, err := getConfigDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get config directory: %w", err)
			}
			path = filepath.Join(configDir, "sessions.enc")
		}
		encryptedStore, err := NewEncryptedFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create encrypted store: %w", err)
		}
		stores = append(stores, encryptedStore)
	}

	if kind == "auto" || kind == "env" {
		stores = append(stores, NewEnvironmentStore())
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over explicit stores
func NewManagerWithStores(stores ...SessionStore) *Manager {
	return &Manager{stores: stores}
}

// Save stores s
func (m *Manager) Save(s *session.Session) error {
	return m.Store(NewAccount(s))
}

// Load returns the session stored for username
func (m *Manager) Load(username string) (*session.Session, error) {
	account, err := m.Retrieve(username)
	if err != nil {
		return nil, err
	}
	return account.Session()
}

// LoadDefault returns the session of username, or of the most recently
// stored account when username is empty
func (m *Manager) LoadDefault(username string) (*session.Session, error) {
	if username != "" {
		return m.Load(username)
	}
	account, err := m.RetrieveDefault()
	if err != nil {
		return nil, err
	}
	return account.Session()
}

// Store saves an account using the first store that accepts it
func (m *Manager) Store(account *Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store session: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets an account from the first store that has it
func (m *Manager) Retrieve(username string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(username); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, username)
}

// RetrieveDefault returns the most recently modified account
func (m *Manager) RetrieveDefault() (*Account, error) {
	accounts, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrSessionNotFound
	}
	return accounts[0], nil
}

// List returns all stored accounts, newest first. When several stores
// hold the same username the newest record wins.
func (m *Manager) List() ([]*Account, error) {
	accountMap := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if existing, ok := accountMap[account.Username]; !ok || account.LastModified.After(existing.LastModified) {
				accountMap[account.Username] = account
			}
		}
	}

	result := make([]*Account, 0, len(accountMap))
	for _, account := range accountMap {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].LastModified.After(result[j].LastModified)
		}
		return result[i].Username < result[j].Username
	})

	return result, nil
}

// Delete removes an account from every store
func (m *Manager) Delete(username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil && !errors.Is(lastErr, ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, username)
	}

	return nil
}

// getConfigDir returns the per-user configuration directory
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "interpals")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "interpals")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "interpals")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "interpals")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// SanitizeAccount returns a copy with the cookie values masked
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}

	return &Account{
		Username:     account.Username,
		SessID:       maskString(account.SessID),
		CSRFCookie:   maskString(account.CSRFCookie),
		LastModified: account.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSession   = errors.New("invalid session")
	ErrStoreUnavailable = errors.New("session store unavailable")
)
