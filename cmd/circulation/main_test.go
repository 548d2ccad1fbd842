package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, logs bytes.Buffer

	root := newRootCmd(&out, &logs)
	root.SetArgs(args)
	root.SetContext(t.Context())

	err := root.Execute()

	return out.String(), err
}

func givenConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "error in arranging test data")

	return path
}

func Test_ConfigInit_WritesDefaultsOnce(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "circulation", "config.yml")

	// act
	out, err := run(t, "config", "init", "--config", path)
	_, secondErr := run(t, "config", "init", "--config", path)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "config written to")
	assert.FileExists(t, path)
	assert.ErrorContains(t, secondErr, "--force")
}

func Test_ConfigShow_PrintsTheEffectiveConfig(t *testing.T) {
	// arrange
	path := givenConfigFile(t, "http:\n  port: 9191\n")
	t.Setenv("CIRCULATION_LOG_LEVEL", "debug")

	// act
	out, err := run(t, "config", "show", "--config", path)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "port: 9191")
	assert.Contains(t, out, "level: debug")
}

func Test_Sweep_RunsAgainstTheConfiguredStore(t *testing.T) {
	// arrange
	path := givenConfigFile(t, "notify:\n  driver: none\n")

	// act
	out, err := run(t, "sweep", "expire", "--config", path, "--library", "lib-1", "--at", "2025-01-10T10:00:00Z")

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "expire sweep: 0 events, idempotent=true")
}

func Test_Sweep_RefusesInvalidTime(t *testing.T) {
	// arrange
	path := givenConfigFile(t, "notify:\n  driver: none\n")

	// act
	_, err := run(t, "sweep", "overdue", "--config", path, "--at", "tomorrow")

	// assert
	assert.ErrorContains(t, err, "RFC 3339")
}

func Test_Policy_SetAndList(t *testing.T) {
	// arrange
	dsn := filepath.Join(t.TempDir(), "policies.db")
	path := givenConfigFile(t, "policy_store:\n  driver: sql\n  sql_driver: sqlite3\n  dsn: "+dsn+"\n")

	// act
	_, setErr := run(t, "policy", "set", "--config", path, "--library", "lib-north", "--fine", "1.25", "--max-books", "3")
	out, listErr := run(t, "policy", "list", "--config", path)

	// assert
	require.NoError(t, setErr)
	require.NoError(t, listErr)
	assert.Contains(t, out, "LIBRARY")
	assert.Contains(t, out, "lib-north")
	assert.Contains(t, out, "1.25")
}

func Test_Policy_RefusesTheStaticStore(t *testing.T) {
	// arrange
	path := givenConfigFile(t, "policy_store:\n  driver: static\n")

	// act
	_, err := run(t, "policy", "list", "--config", path)

	// assert
	assert.ErrorIs(t, err, errStaticPolicyStore)
}

func Test_Migrate_InMemoryIsANoop(t *testing.T) {
	// arrange
	path := givenConfigFile(t, "notify:\n  driver: none\n")

	// act
	out, err := run(t, "migrate", "--config", path)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "migrated (store: memory, policy store: static)")
}
