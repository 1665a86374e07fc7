package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {

	dir := t.TempDir()

	for _, key := range []string{"SERVER_PORT", "MONGODB_URI", "MONGODB_NAME", "ALLOWED_EXTENSIONS", "MAX_UPLOAD_BYTES", "ANALYTICS_LIMIT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SQLITE_DSN", "file:"+filepath.Join(dir, "books.db")+"?_foreign_keys=on")

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	return envFile
}

func run(args ...string) (string, error) {

	var out bytes.Buffer

	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportThenExport(t *testing.T) {

	envFile := setupEnv(t)
	dir := filepath.Dir(envFile)

	input := filepath.Join(dir, "books.txt")
	require.NoError(t, os.WriteFile(input, []byte("Emma, Jane Austen, 1815, [romance]\nbad line\nDune, Frank Herbert, 1965, [sci-fi, adventure]\n"), 0o600))

	out, err := run("--env-file", envFile, "import", input)
	require.NoError(t, err)
	assert.Contains(t, out, "books.txt: 2 of 3 imported")
	assert.Contains(t, out, "line 2:")

	out, err = run("--env-file", envFile, "export")
	require.NoError(t, err)
	assert.Equal(t, "Dune, Frank Herbert, 1965, [sci-fi, adventure]\nEmma, Jane Austen, 1815, [romance]\n", out)

	exported := filepath.Join(dir, "export.txt")
	_, err = run("--env-file", envFile, "export", exported)
	require.NoError(t, err)

	content, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, "Dune, Frank Herbert, 1965, [sci-fi, adventure]\nEmma, Jane Austen, 1815, [romance]\n", string(content))
}

func TestImportShouldRejectUnsupportedFile(t *testing.T) {

	envFile := setupEnv(t)

	_, err := run("--env-file", envFile, "import", filepath.Join(filepath.Dir(envFile), "books.pdf"))
	require.Error(t, err)
}

func TestImportShouldRequireFile(t *testing.T) {

	envFile := setupEnv(t)

	_, err := run("--env-file", envFile, "import")
	require.Error(t, err)
}

func TestExportShouldFailOnUnwritablePath(t *testing.T) {

	envFile := setupEnv(t)

	_, err := run("--env-file", envFile, "export", filepath.Join(filepath.Dir(envFile), "missing", "export.txt"))
	require.Error(t, err)
}
