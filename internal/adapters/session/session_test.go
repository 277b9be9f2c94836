package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "dispatcher",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestUsable(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.False(t, Usable("", now))
	assert.True(t, Usable("opaque-token", now))
	assert.True(t, Usable(signed(t, now.Add(time.Hour)), now))
	assert.False(t, Usable(signed(t, now.Add(-time.Minute)), now))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")
	assert.False(t, Authenticated(s, time.Now()))

	require.NoError(t, s.SetToken("abc"))
	assert.Equal(t, "abc", s.Token())
	assert.True(t, Authenticated(s, time.Now()))

	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.Token())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "", s.Token())

	require.NoError(t, s.SetToken("abc"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", reopened.Token())

	require.NoError(t, reopened.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	require.NoError(t, reopened.Clear())
}

func TestOpenFileStoreEmptyPath(t *testing.T) {
	_, err := OpenFileStore(" ")
	require.Error(t, err)
}
