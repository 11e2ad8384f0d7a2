package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "success.db")

	stdout := new(bytes.Buffer)
	args := []string{"-name", "Rina", "-email", "rina@example.com", "-password", "secret", "-db", dbPath}
	err := run(args, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "User rina@example.com created successfully")
}

func TestRun_DuplicateEmail(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "duplicate.db")
	args := []string{"-name", "Rina", "-email", "rina@example.com", "-password", "secret", "-db", dbPath}

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)), "first run should succeed")

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err, "expected error on duplicate email")
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)

	err := run([]string{"-password", "secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: name, email")
	assert.Contains(t, stdout.String(), "Usage:")

	err = run([]string{"-name", "Rina"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
}

func TestRun_InteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "interactive.db")
	stdout := new(bytes.Buffer)
	stdin := bytes.NewBufferString("interactive_secret\n")

	args := []string{"-name", "Budi", "-email", "budi@example.com", "-db", dbPath}
	require.NoError(t, run(args, stdin, stdout, new(bytes.Buffer)))

	output := stdout.String()
	assert.Contains(t, output, "Password: ")
	assert.Contains(t, output, "User budi@example.com created successfully")
}

func TestRun_InteractivePassword_Empty(t *testing.T) {
	stdin := bytes.NewBufferString("\n")

	args := []string{"-name", "Budi", "-email", "budi@example.com"}
	err := run(args, stdin, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err, "expected error for empty password")
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_EnvVarOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("DEVBACKEND_DB_PATH", dbPath)

	args := []string{"-name", "Env", "-email", "env@example.com", "-password", "secret"}
	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	assert.FileExists(t, dbPath)
}

func TestRun_InvalidDBPath(t *testing.T) {
	// A directory cannot be opened as a database file.
	args := []string{"-name", "Fail", "-email", "fail@example.com", "-password", "secret", "-db", t.TempDir()}
	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_UnknownDriver(t *testing.T) {
	args := []string{"-name", "X", "-email", "x@example.com", "-password", "secret", "-driver", "mysql", "-db", filepath.Join(t.TempDir(), "x.db")}
	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}

func TestRun_InvalidFlag(t *testing.T) {
	err := run([]string{"-invalid"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
