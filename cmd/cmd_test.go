// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testItemDump = `{
  "440": {"id": 440, "name": "Iron ore", "tradeable_on_ge": true, "linked_id_item": null, "linked_id_placeholder": 23063},
  "453": {"id": 453, "name": "Coal", "tradeable_on_ge": true, "linked_id_item": null, "linked_id_placeholder": 23307}
}`

// execute runs a fresh root command with the given args, returning its
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep test runs from dropping a rotating log file in the repo.
	t.Setenv("PIXELPILOT_LOGGER_LOG_FILE", "")
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeItemDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(testItemDump), 0o644))
	return path
}

func TestRootCommandStructure(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["items"])
	assert.True(t, names["config"])
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "pixelpilot")
	assert.Contains(t, out, "poll_interval")
	assert.Contains(t, out, "listen_addr")
}

func TestConfigProfileDefaults(t *testing.T) {
	out, err := execute(t, "config", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "breaks")
	assert.Contains(t, out, "BreakCfg")
	assert.Contains(t, out, "step_delay")
}

func TestConfigProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"step_limit": 42}`), 0o644))

	out, err := execute(t, "config", "profile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "42")
}

func TestItemsSearch(t *testing.T) {
	t.Setenv("PIXELPILOT_BOT_ITEM_DB_PATH", writeItemDB(t))

	out, err := execute(t, "items", "search", "ore")
	require.NoError(t, err)
	assert.Contains(t, out, "Iron ore")
	assert.NotContains(t, out, "Coal")
}

func TestItemsShow(t *testing.T) {
	t.Setenv("PIXELPILOT_BOT_ITEM_DB_PATH", writeItemDB(t))

	out, err := execute(t, "items", "show", "453")
	require.NoError(t, err)
	assert.Contains(t, out, "Coal")

	_, err = execute(t, "items", "show", "999999")
	require.Error(t, err)

	_, err = execute(t, "items", "show", "notanumber")
	require.Error(t, err)
}
