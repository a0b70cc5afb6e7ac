package cli

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChatData = `{"tabs":[{"title":"Fix login","messages":[
  {"role":"user","content":"the login form throws a 500 when submitting"},
  {"role":"assistant","content":"Looking into it."}]}]}`

// newCursorWorkspace plants a state.vscdb with one chat tab under root.
// The sqlite driver is registered by the db package import.
func newCursorWorkspace(t *testing.T, root, workspace, chatJSON string) {
	t.Helper()
	dir := filepath.Join(root, workspace)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.vscdb"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE ItemTable (key TEXT PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO ItemTable (key, value) VALUES (?, ?)`,
		"workbench.panel.aichat.view.aichat.chatdata", chatJSON)
	require.NoError(t, err)
}

func TestScrapeCmd_ExportsWorkspace(t *testing.T) {
	isolateEnv(t)
	root, out := t.TempDir(), t.TempDir()
	newCursorWorkspace(t, root, "my-app", testChatData)

	output, err := executeCmd(t, testApp(t), "scrape", "--workspace-storage", root, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, output, "Scrape complete: workspaces=1 exported=1 skipped=0 errors=0")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "-my-app.md"))

	data, err := os.ReadFile(filepath.Join(out, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "the login form throws a 500 when submitting")
}

func TestScrapeCmd_SecondSweepSkipsUnchanged(t *testing.T) {
	isolateEnv(t)
	root, out := t.TempDir(), t.TempDir()
	newCursorWorkspace(t, root, "my-app", testChatData)

	_, err := executeCmd(t, testApp(t), "scrape", "--workspace-storage", root, "--out", out)
	require.NoError(t, err)

	output, err := executeCmd(t, testApp(t), "scrape", "--workspace-storage", root, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, output, "Scrape complete: workspaces=1 exported=0 skipped=1 errors=0")
}

func TestScrapeCmd_MissingWorkspaceStorageFails(t *testing.T) {
	isolateEnv(t)
	absent := filepath.Join(t.TempDir(), "absent")

	_, err := executeCmd(t, testApp(t), "scrape", "--workspace-storage", absent, "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace storage")
}

func TestScrapeCmd_LogFileAppends(t *testing.T) {
	isolateEnv(t)
	root, out := t.TempDir(), t.TempDir()
	newCursorWorkspace(t, root, "my-app", testChatData)
	logPath := filepath.Join(t.TempDir(), "scrape.log")

	_, err := executeCmd(t, testApp(t), "scrape",
		"--workspace-storage", root, "--out", out, "--log-file", logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scrape complete")
}
