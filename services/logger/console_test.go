package logsvc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/17dpatra/studentassignmenttracker/core/session"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info", false)

	logger.Debug("hidden")
	logger.Warn("api request rejected",
		errors.New("request failed (404): course not found"),
		map[string]interface{}{"path": "/deletecourse/3", "status": 404},
		session.Session{Token: "s3cr3t", Username: "awe"},
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "api request rejected", entry["message"])
	assert.Equal(t, "request failed (404): course not found", entry["error"])
	assert.Equal(t, "/deletecourse/3", entry["path"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "awe", entry["username"])
	assert.NotContains(t, buf.String(), "s3cr3t")
}

func TestConsoleLogger_levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "not-a-level", false)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewConsoleLogger(&buf, "debug", true).Debug("pretty")
	assert.Contains(t, buf.String(), "pretty")

	buf.Reset()
	NewNopLogger().Error("nothing", errors.New("boom"))
	assert.Empty(t, buf.String())
}
