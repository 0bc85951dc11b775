package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"interpals/pkg/config"
	"interpals/pkg/session"
)

func testSession(name string) *session.Session {
	return session.New(name, "sess-"+name+"-0123456789", "csrf-"+name+"-0123456789")
}

func TestManagerSaveAndLoad(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Save(testSession("alice")))
	assert.Equal(t, 1, store.Count())

	loaded, err := manager.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, testSession("alice"), loaded)

	stored, err := store.Retrieve("alice")
	require.NoError(t, err)
	assert.False(t, stored.LastModified.IsZero())
}

func TestManagerRejectsIncompleteSession(t *testing.T) {
	manager, store := NewMockManager()

	err := manager.Save(session.New("alice", "", "csrf"))
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Contains(t, err.Error(), session.CookieSessID)
	assert.Equal(t, 0, store.Count())

	_, err = (&Account{Username: "alice", SessID: "s"}).Session()
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Save(testSession("bob")))
	assert.Equal(t, 0, broken.Count())
	assert.True(t, working.Exists("bob"))

	loaded, err := manager.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)
}

func TestManagerStoreReportsLastError(t *testing.T) {
	first := NewMockStore()
	first.StoreError = errors.New("first")
	second := NewMockStore()
	second.StoreError = errors.New("second")

	err := NewManagerWithStores(first, second).Save(testSession("bob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
}

func TestManagerLoadMissing(t *testing.T) {
	manager, _ := NewMockManager()

	_, err := manager.Load("nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = manager.LoadDefault("")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerLoadDefaultPicksNewest(t *testing.T) {
	manager, store := NewMockManager()
	now := time.Now()

	older := NewAccount(testSession("old"))
	older.LastModified = now.Add(-time.Hour)
	newer := NewAccount(testSession("new"))
	newer.LastModified = now
	require.NoError(t, store.Store(older))
	require.NoError(t, store.Store(newer))

	s, err := manager.LoadDefault("")
	require.NoError(t, err)
	assert.Equal(t, "new", s.Username)

	s, err = manager.LoadDefault("old")
	require.NoError(t, err)
	assert.Equal(t, "old", s.Username)
}

func TestManagerListMergesStores(t *testing.T) {
	a := NewMockStore()
	b := NewMockStore()
	now := time.Now()

	stale := NewAccount(session.New("carol", "stale-sessid", "stale-csrf"))
	stale.LastModified = now.Add(-time.Minute)
	fresh := NewAccount(session.New("carol", "fresh-sessid", "fresh-csrf"))
	fresh.LastModified = now
	require.NoError(t, a.Store(stale))
	require.NoError(t, b.Store(fresh))
	require.NoError(t, b.Store(NewAccount(testSession("dave"))))

	accounts, err := NewManagerWithStores(a, b).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "carol", accounts[0].Username)
	assert.Equal(t, "fresh-sessid", accounts[0].SessID)
}

func TestManagerDelete(t *testing.T) {
	a := NewMockStore()
	b := NewMockStore()
	manager := NewManagerWithStores(a, b)
	require.NoError(t, a.Store(NewAccount(testSession("erin"))))
	require.NoError(t, b.Store(NewAccount(testSession("erin"))))

	require.NoError(t, manager.Delete("erin"))
	assert.False(t, a.Exists("erin"))
	assert.False(t, b.Exists("erin"))

	assert.ErrorIs(t, manager.Delete("erin"), ErrSessionNotFound)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	_, err = store.Retrieve("alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Store(NewAccount(testSession("alice"))))
	require.NoError(t, store.Store(NewAccount(testSession("bob"))))
	assert.True(t, store.Exists("alice"))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	reopened, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)
	account, err := reopened.Retrieve("bob")
	require.NoError(t, err)
	assert.Equal(t, testSession("bob").SessID, account.SessID)

	wrong, err := NewEncryptedFileStoreWithPassphrase(path, "battery staple")
	require.NoError(t, err)
	_, err = wrong.Retrieve("bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Delete("alice"))
	require.NoError(t, store.Delete("bob"))
	assert.NoFileExists(t, path)
	assert.ErrorIs(t, store.Delete("bob"), ErrSessionNotFound)
}

func TestEncryptedFileStorePassphraseFromEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "from-env")
	path := filepath.Join(t.TempDir(), "sessions.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(NewAccount(testSession("alice"))))

	same, err := NewEncryptedFileStoreWithPassphrase(path, "from-env")
	require.NoError(t, err)
	assert.True(t, same.Exists("alice"))
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(EnvUsername, "")
	t.Setenv(EnvSessID, "")
	t.Setenv(EnvCSRFCookie, "")
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	t.Setenv(EnvUsername, "frank")
	t.Setenv(EnvSessID, "env-sessid")
	t.Setenv(EnvCSRFCookie, "env-csrf")

	account, err := store.Retrieve("")
	require.NoError(t, err)
	s, err := account.Session()
	require.NoError(t, err)
	assert.Equal(t, session.New("frank", "env-sessid", "env-csrf"), s)

	assert.True(t, store.Exists("frank"))
	assert.False(t, store.Exists("grace"))
	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("frank"), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(NewAccount(testSession("alice"))))
	require.NoError(t, store.Store(NewAccount(testSession("bob"))))

	account, err := store.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, testSession("alice").CSRFCookie, account.CSRFCookie)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	require.NoError(t, store.Delete("alice"))
	assert.False(t, store.Exists("alice"))
	assert.ErrorIs(t, store.Delete("alice"), ErrSessionNotFound)

	accounts, err = store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "bob", accounts[0].Username)
}

func TestNewManagerFromConfig(t *testing.T) {
	t.Setenv(PassphraseEnv, "config-pass")
	dir := t.TempDir()

	manager, err := NewManager(config.SessionConfig{Store: "file", File: filepath.Join(dir, "s.enc")})
	require.NoError(t, err)
	require.NoError(t, manager.Save(testSession("alice")))
	assert.FileExists(t, filepath.Join(dir, "s.enc"))

	t.Setenv(EnvUsername, "frank")
	t.Setenv(EnvSessID, "env-sessid")
	t.Setenv(EnvCSRFCookie, "env-csrf")
	manager, err = NewManager(config.SessionConfig{Store: "env"})
	require.NoError(t, err)
	s, err := manager.Load("frank")
	require.NoError(t, err)
	assert.Equal(t, "env-sessid", s.SessID)
	assert.Error(t, manager.Save(testSession("alice")))

	_, err = NewManager(config.SessionConfig{Store: "cloud"})
	assert.Error(t, err)
}

func TestSanitizeAccount(t *testing.T) {
	account := NewAccount(session.New("alice", "abcdefghijklmnop", "short"))

	masked := SanitizeAccount(account)
	assert.Equal(t, "alice", masked.Username)
	assert.Equal(t, "abcd...mnop", masked.SessID)
	assert.Equal(t, "********", masked.CSRFCookie)
	assert.Nil(t, SanitizeAccount(nil))
}
