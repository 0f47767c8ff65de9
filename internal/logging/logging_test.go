package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscardsByDefault(t *testing.T) {
	t.Setenv(EnvDebug, "")
	buf := &bytes.Buffer{}
	logger, closer, err := New(Options{Stderr: buf})
	require.NoError(t, err)
	defer closer()

	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewDebugWritesText(t *testing.T) {
	t.Setenv(EnvDebug, "")
	buf := &bytes.Buffer{}
	logger, closer, err := New(Options{Debug: true, Stderr: buf, RunID: "abc"})
	require.NoError(t, err)
	defer closer()

	logger.Debug("compile", "test", "Tests/test1")
	out := buf.String()
	assert.Contains(t, out, "msg=compile")
	assert.Contains(t, out, "run_id=abc")
	assert.Contains(t, out, "test=Tests/test1")
}

func TestNewDebugFromEnv(t *testing.T) {
	t.Setenv(EnvDebug, "1")
	buf := &bytes.Buffer{}
	logger, closer, err := New(Options{Stderr: buf})
	require.NoError(t, err)
	defer closer()

	logger.Debug("from env")
	assert.Contains(t, buf.String(), "from env")
}

func TestNewFileWritesJSON(t *testing.T) {
	t.Setenv(EnvDebug, "")
	path := filepath.Join(t.TempDir(), "logs", "harness.log")
	logger, closer, err := New(Options{File: path, RunID: "xyz"})
	require.NoError(t, err)

	logger.Info("run finished", "passed", 2)
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &record))
	assert.Equal(t, "run finished", record["msg"])
	assert.Equal(t, "xyz", record["run_id"])
	assert.EqualValues(t, 2, record["passed"])
}
