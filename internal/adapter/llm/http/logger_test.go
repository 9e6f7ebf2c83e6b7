package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestDefaultLogger_RedactAPIKey(t *testing.T) {
	logger := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)

	assert.Equal(t, "[REDACTED-cdef]", logger.RedactAPIKey("sk-1234567890abcdef"))
	assert.Equal(t, "[REDACTED]", logger.RedactAPIKey("abc"))

	logger.SetRedaction(false)
	assert.Equal(t, "sk-1234567890abcdef", logger.RedactAPIKey("sk-1234567890abcdef"))
}

func TestDefaultLogger_LogWarning_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelInfo, LogFormatJSON, true)
	logger.LogWarning(context.Background(), "failed to save run record", map[string]interface{}{
		"runID":    "run-20260829T120000Z-a1b2c3",
		"provider": "sqlite",
		"error":    "database is locked",
	})

	output := buf.String()
	jsonStart := strings.Index(output, "{")
	require.NotEqual(t, -1, jsonStart, "Should contain JSON")

	var logData map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output[jsonStart:]), &logData))

	assert.Equal(t, "warning", logData["level"])
	assert.Equal(t, "failed to save run record", logData["message"])
	assert.Equal(t, "run-20260829T120000Z-a1b2c3", logData["runID"])
	assert.Equal(t, "database is locked", logData["error"])
	assert.Contains(t, logData, "timestamp")
}

func TestDefaultLogger_LogInfo_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelInfo, LogFormatJSON, true)
	logger.LogInfo(context.Background(), "classification complete", map[string]interface{}{
		"runID":      "run-20260829T120000Z-a1b2c3",
		"mtRequired": true,
		"designType": "III",
	})

	output := buf.String()
	jsonStart := strings.Index(output, "{")
	require.NotEqual(t, -1, jsonStart, "Should contain JSON")

	var logData map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output[jsonStart:]), &logData))

	assert.Equal(t, "info", logData["level"])
	assert.Equal(t, "classification complete", logData["message"])
	assert.Equal(t, true, logData["mtRequired"])
	assert.Equal(t, "III", logData["designType"])
}

func TestDefaultLogger_LogWarning_Human(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)
	logger.LogWarning(context.Background(), "narrative assessment failed", map[string]interface{}{
		"provider": "anthropic",
		"error":    "rate limit",
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN] narrative assessment failed")
	assert.Contains(t, output, "error=rate limit")
	assert.Contains(t, output, "provider=anthropic")
}

func TestDefaultLogger_LogWarning_Human_EmptyFields(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)
	logger.LogWarning(context.Background(), "simple warning", map[string]interface{}{})

	assert.Contains(t, buf.String(), "[WARN] simple warning")
	assert.NotContains(t, buf.String(), "(")
}

func TestDefaultLogger_StructuredRespectsLogLevel(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelError, LogFormatHuman, true)
	logger.LogWarning(context.Background(), "suppressed warning", map[string]interface{}{"key": "value"})
	logger.LogInfo(context.Background(), "suppressed info", map[string]interface{}{"key": "value"})

	assert.Empty(t, buf.String())
}

func TestDefaultLogger_LogRequest_RedactsKey(t *testing.T) {
	buf := captureLog(t)

	logger := NewDefaultLogger(LogLevelDebug, LogFormatHuman, true)
	logger.LogRequest(context.Background(), RequestLog{
		Provider:   "openai",
		Model:      "text-embedding-3-small",
		InputChars: 42,
		APIKey:     "sk-secret-key-abcd",
	})

	output := buf.String()
	assert.Contains(t, output, "[REDACTED-abcd]")
	assert.NotContains(t, output, "sk-secret-key-abcd")
}
