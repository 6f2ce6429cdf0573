package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersScripts(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"migrate", "fix-permissions", "repair-sequences", "import-costs", "rebuild-stock", "rebuild-balances"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("dry-run"))
}

func TestArgumentValidation(t *testing.T) {
	_, err := execute(t, "import-costs")
	assert.Error(t, err)

	_, err = execute(t, "rebuild-stock", "c1", "c2")
	assert.Error(t, err)

	_, err = execute(t, "migrate", "up", "extra")
	assert.Error(t, err)
}

func TestFixPermissionsRejectsBadMatrixBeforeConnecting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  OWNER: [sales:read]\n"), 0o600))

	_, err := execute(t, "fix-permissions", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OWNER")
}

func TestFixPermissionsMissingFile(t *testing.T) {
	_, err := execute(t, "fix-permissions", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionalArg(t *testing.T) {
	assert.Equal(t, "", optionalArg(nil, 0))
	assert.Equal(t, "c1", optionalArg([]string{"file.csv", " c1 "}, 1))
}
