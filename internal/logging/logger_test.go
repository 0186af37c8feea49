package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "client id is redacted", input: "00000000-0000-0000-0000-000000000001"},
		{name: "empty secret is still redacted", input: ""},
		{name: "token is redacted", input: "eyJ0eXAiOiJKV1QiLCJhbGciOi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "[REDACTED]", Secret(tt.input).String())
			assert.Equal(t, "[REDACTED]", Secret(tt.input).GoString())
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", Secret(tt.input)))
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", Secret(tt.input)))
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	logger.Info("fetched %s", "contososvc")
	logger.Warn("vault name truncated")
	logger.Error("token stage failed")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "✓ fetched contososvc\n")
	assert.Contains(t, out, "⚠ vault name truncated\n")
	assert.Contains(t, out, "✗ token stage failed\n")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\033[")
}

func TestLoggerDebugMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, false)

	assert.True(t, logger.DebugEnabled())
	logger.Debug("token for %s", Secret("tok"))

	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "token for [REDACTED]")
	assert.Contains(t, buf.String(), "\033[36m")
}

func TestRedact(t *testing.T) {
	s := "Authorization: Bearer abcdef123 for client xyz"
	got := Redact(s, []string{"abcdef123", "xyz", ""})

	assert.Equal(t, "Authorization: Bearer [REDACTED] for client xyz", got)
}

func TestBridgeAzureSDKDisabled(t *testing.T) {
	var buf bytes.Buffer
	detach := BridgeAzureSDK(NewWithWriter(&buf, false, true))
	detach()

	assert.Empty(t, buf.String())
}
