package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "nested", "session.json"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := testStore(t)

	sess := &Session{
		UserID:       "user-1",
		Username:     "maria",
		Email:        "maria@example.com",
		AccessToken:  "token-abc",
		ActiveChatID: "chat-9",
	}
	require.NoError(t, store.Save(sess))

	loaded := store.Load()
	assert.Equal(t, sess, loaded)
	assert.True(t, loaded.LoggedIn())
}

func TestLoadMissingFileReturnsEmptySession(t *testing.T) {
	store := testStore(t)

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.False(t, loaded.LoggedIn())
	assert.Empty(t, loaded.UserID)
}

func TestLoadCorruptedFileReturnsEmptySession(t *testing.T) {
	store := testStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{invalid"), 0o600))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.False(t, loaded.LoggedIn())
}

func TestGuestModeSurvivesReload(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Save(&Session{GuestMode: true}))

	loaded := store.Load()
	assert.True(t, loaded.GuestMode)
	assert.False(t, loaded.LoggedIn())
}

func TestClear(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(&Session{UserID: "user-1"}))

	require.NoError(t, store.Clear())
	assert.False(t, store.Load().LoggedIn())

	// Limpar sem arquivo não é erro
	assert.NoError(t, store.Clear())
}

func TestLoggedIn(t *testing.T) {
	assert.False(t, (&Session{}).LoggedIn())
	assert.False(t, (&Session{UserID: "u", GuestMode: true}).LoggedIn())
	assert.True(t, (&Session{UserID: "u"}).LoggedIn())

	var nilSession *Session
	assert.False(t, nilSession.LoggedIn())
}
