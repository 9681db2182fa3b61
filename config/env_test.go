package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_TEST_FROM_FILE=sqlite\nSTOREFRONT_TEST_PRESET=file\n"), 0o644))

	t.Setenv("STOREFRONT_TEST_PRESET", "memory")
	t.Setenv("STOREFRONT_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("STOREFRONT_TEST_FROM_FILE"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "sqlite", os.Getenv("STOREFRONT_TEST_FROM_FILE"))
	assert.Equal(t, "memory", os.Getenv("STOREFRONT_TEST_PRESET"), "existing variables are not overridden")
}

func TestLoadEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("KEY='unterminated\n"), 0o644))
	assert.Error(t, LoadEnv(path))
}
