package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "app.db"))
	return dir
}

func TestMigrateAndSeed(t *testing.T) {
	dir := setupEnv(t)

	out, err := runCmd(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema ready.")

	seed := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
drivers:
  - username: jdoe
    password: secret
    trips:
      - current_location: "40.0,-75.0"
        pickup_location: New York, NY
        dropoff_location: Boston, MA
        current_cycle_hours: 10
`), 0o600))

	out, err = runCmd(t, "seed", "--file", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "1 driver(s) created")

	out, err = runCmd(t, "seed", "--file", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "0 driver(s) created")
}

func TestCreateDriver(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "migrate")
	require.NoError(t, err)

	out, err := runCmd(t, "create-driver", "dispatcher", "--password", "pw", "--staff")
	require.NoError(t, err)
	assert.Contains(t, out, `Created driver "dispatcher"`)
	assert.Contains(t, out, "staff=true")

	_, err = runCmd(t, "create-driver", "dispatcher", "--password", "pw")
	assert.ErrorContains(t, err, "already exists")

	_, err = runCmd(t, "create-driver", "nopass")
	assert.Error(t, err)
}
