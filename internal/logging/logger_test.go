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

func TestLogLinesCarryEventField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	t.Cleanup(func() { logger = newDiscardLogger() })

	LogDebug("resolve", "3 simulators")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "resolve", entry["event"])
	assert.Equal(t, "3 simulators", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")
	t.Cleanup(func() { logger = newDiscardLogger() })

	LogDebug("resolve", "hidden")
	LogError("run", "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tilaunch.log")
	closeFn, err := Setup(path, "bogus")
	require.NoError(t, err)
	t.Cleanup(func() { logger = newDiscardLogger() })

	LogInfo("startup", "hello")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"event":"startup"`), string(b))
}
