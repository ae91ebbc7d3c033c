package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LogLevel
		wantErr bool
	}{
		{name: "error", input: "error", want: LogLevelError},
		{name: "warn", input: "warn", want: LogLevelWarn},
		{name: "info", input: "info", want: LogLevelInfo},
		{name: "debug", input: "debug", want: LogLevelDebug},
		{name: "trace", input: "trace", want: LogLevelTrace},
		{name: "unknown", input: "verbose", want: LogLevelError, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
			if !tt.wantErr {
				assert.Equal(t, tt.input, got.String())
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, LogLevelWarn)

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "shown 3", entries[0]["msg"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestLoggerTraceLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, LogLevelDebug)

	logger.Trace("too chatty")
	assert.Empty(t, buf.String())

	logger.SetLevel(LogLevelTrace)
	logger.Trace("now visible")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "trace", entries[0]["level"])
	assert.Equal(t, "now visible", entries[0]["msg"])
}

func TestNamedLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, LogLevelInfo).Named("network")

	logger.Info("connected")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "network", entries[0]["logger"])
}
