package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgerd/internal/config"
	"pgerd/internal/core"
)

const unreachableDSN = "postgres://erd@127.0.0.1:1/erd?sslmode=disable&connect_timeout=1"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvDSN, "")
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvSchema, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, &bytes.Buffer{})
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pgerd dev\n", stdout.String())
}

func TestMissingConnectionString(t *testing.T) {
	_, _, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string is required")
}

func TestInvalidFlagValues(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"format", []string{unreachableDSN, "-f", "svg"}, "unsupported format: svg"},
		{"driver", []string{unreachableDSN, "--driver", "odbc"}, "unsupported driver: odbc"},
		{"direction", []string{unreachableDSN, "-d", "up"}, "unsupported direction: up"},
		{"too many args", []string{unreachableDSN, "extra"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dsn: "+unreachableDSN+"\nformat: svg\n"), 0o600))

	_, _, err := execute(t, "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: svg")

	_, _, err = execute(t, "-c", path, "-f", "mermaid", "--timeout", "5s")
	var ce *core.ConnectivityError
	require.True(t, errors.As(err, &ce), "expected a connectivity error, got %v", err)
}

func TestUnsupportedConfigFile(t *testing.T) {
	_, _, err := execute(t, "-c", "pgerd.ini")
	var ufe *config.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
}
