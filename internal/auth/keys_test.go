package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_PersistsKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyBytesSize)

	info, err := os.Stat(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func TestResolveKey(t *testing.T) {
	t.Run("configured key wins", func(t *testing.T) {
		dir := t.TempDir()
		key, err := ResolveKey(testKeyHex, dir)
		require.NoError(t, err)
		assert.Equal(t, testKeyHex, key)

		_, err = os.Stat(filepath.Join(dir, KeyFileName))
		assert.True(t, os.IsNotExist(err), "no key file should be written")
	})

	t.Run("invalid configured key", func(t *testing.T) {
		_, err := ResolveKey(strings.Repeat("g", 64), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("generated key is usable", func(t *testing.T) {
		key, err := ResolveKey("", t.TempDir())
		require.NoError(t, err)
		_, err = hex.DecodeString(key)
		require.NoError(t, err)

		_, err = NewTokenService(key, time.Hour)
		assert.NoError(t, err)
	})
}
