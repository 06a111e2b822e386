package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	merged := Merge(
		Vars{"A": "1", "B": "1"},
		Vars{"B": "2"},
		Vars{"C": "3"},
	)
	assert.Equal(t, Vars{"A": "1", "B": "2", "C": "3"}, merged)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.env")
	require.NoError(t, os.WriteFile(path, []byte("TOKEN=abc\n# comment\nREPO=acme/infra\n"), 0o600))

	vars, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, Vars{"TOKEN": "abc", "REPO": "acme/infra"}, vars)
}

func TestLoadEnvFilesLaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.env"), []byte("KEY=first\nONLY_A=yes\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.env"), []byte("KEY=second\n"), 0o600))

	vars, err := LoadEnvFiles(dir, []string{"a.env", "b.env"})
	require.NoError(t, err)
	assert.Equal(t, "second", vars["KEY"])
	assert.Equal(t, "yes", vars["ONLY_A"])
}

func TestLoadEnvFilesMissingFile(t *testing.T) {
	_, err := LoadEnvFiles(t.TempDir(), []string{"missing.env"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}
