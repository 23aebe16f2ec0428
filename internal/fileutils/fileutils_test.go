package fileutils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-dashboard/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "state.json")
	require.NoError(t, os.WriteFile(testFile, []byte("{}"), 0o600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "missing.json")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nope")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
	assert.True(t, fileutils.DirectoryExists(nested))
	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
}

func TestWriteFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data", "bd.state.json")
	require.NoError(t, fileutils.WriteFile(target, []byte(`{"version":1}`), 0o600))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))
}

func TestCreateFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "exports", "bills.csv")
	f, err := fileutils.CreateFile(target)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, fileutils.FileExists(target))
}

func TestOutputWriter(t *testing.T) {
	var stdout bytes.Buffer
	w, err := fileutils.OutputWriter("-", &stdout)
	require.NoError(t, err)
	_, _ = w.Write([]byte("hello"))
	require.NoError(t, w.Close())
	assert.Equal(t, "hello", stdout.String())

	target := filepath.Join(t.TempDir(), "out.csv")
	w, err = fileutils.OutputWriter(target, &stdout)
	require.NoError(t, err)
	_, _ = w.Write([]byte("a,b\n"))
	require.NoError(t, w.Close())
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}
