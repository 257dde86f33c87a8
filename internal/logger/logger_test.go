package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helper Functions
// ============================================================================

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	originalFormat, _ := currentFormat.Load().(string)
	currentFormat.Store("text")
	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		currentFormat.Store(originalFormat)
		reconfigure()
	}

	return buf, cleanup
}

// ============================================================================
// Level Filtering Tests
// ============================================================================

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "[DEBUG] debug message")
		assert.Contains(t, out, "[INFO] info message")
		assert.Contains(t, out, "[WARN] warn message")
		assert.Contains(t, out, "[ERROR] error message")
	})

	t.Run("WarnLevelFiltersDebugAndInfo", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("WARN")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("ErrorLevelShowsOnlyErrors", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")

		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.NotContains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})
}

func TestSetLevel(t *testing.T) {
	t.Run("SetLevelIsCaseInsensitive", func(t *testing.T) {
		SetLevel("debug")
		assert.Equal(t, LevelDebug, GetLevel())
		SetLevel("Info")
		assert.Equal(t, LevelInfo, GetLevel())
	})

	t.Run("SetLevelIgnoresInvalidValues", func(t *testing.T) {
		SetLevel("WARN")
		SetLevel("LOUD")
		assert.Equal(t, LevelWarn, GetLevel())
		SetLevel("INFO")
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

// ============================================================================
// Formatting Tests
// ============================================================================

func TestMessageFormatting(t *testing.T) {
	t.Run("FormatsStructuredFields", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("RADIUS access accepted", KeyUsername, "alice", KeyServer, "127.0.0.1:1812")

		out := buf.String()
		assert.Contains(t, out, "username=alice")
		assert.Contains(t, out, "server=127.0.0.1:1812")
	})

	t.Run("QuotesValuesWithSpaces", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("canonical", KeyUsername, "Jane Doe")

		assert.Contains(t, buf.String(), `username="Jane Doe"`)
	})

	t.Run("FlattensGroups", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("reply", slog.Group("attrs", slog.String("filter_id", "staff")))

		assert.Contains(t, buf.String(), "attrs.filter_id=staff")
	})

	t.Run("WithGroupPrefixesKeys", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		With(KeyProvider, "radius").WithGroup("radius").Info("sent", "code", "Access-Request")

		out := buf.String()
		assert.Contains(t, out, "provider=radius")
		assert.Contains(t, out, "radius.code=Access-Request")
	})
}

// ============================================================================
// Redaction Tests
// ============================================================================

func TestRedaction(t *testing.T) {
	t.Run("TextHandlerRedactsSecrets", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")
		Debug("exchange", "password", "hunter2", "shared_secret", "s3cr3t", KeyUsername, "alice")

		out := buf.String()
		assert.NotContains(t, out, "hunter2")
		assert.NotContains(t, out, "s3cr3t")
		assert.Contains(t, out, "password=[REDACTED]")
		assert.Contains(t, out, "shared_secret=[REDACTED]")
		assert.Contains(t, out, "username=alice")
	})

	t.Run("JSONHandlerRedactsSecrets", func(t *testing.T) {
		buf := new(bytes.Buffer)
		InitWithWriter(buf, "INFO", "json", false)
		defer InitWithWriter(io.Discard, "INFO", "text", false)

		Info("issued", "access_token", "eyJhbGciOi")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "[REDACTED]", entry["access_token"])
	})

	t.Run("IsSensitiveKey", func(t *testing.T) {
		assert.True(t, IsSensitiveKey("Password"))
		assert.True(t, IsSensitiveKey("radius_secret"))
		assert.True(t, IsSensitiveKey("token"))
		assert.False(t, IsSensitiveKey(KeyUsername))
		assert.False(t, IsSensitiveKey(KeyNASIdentifier))
	})
}

// ============================================================================
// JSON Format Tests
// ============================================================================

func TestJSONFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "INFO", "json", false)
	defer InitWithWriter(io.Discard, "INFO", "text", false)

	Info("authentication finished", KeyOutcome, "pass", KeyDurationMs, 1.5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "authentication finished", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "pass", entry["outcome"])
	assert.Contains(t, entry, "time")
}

func TestFormatSwitching(t *testing.T) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "INFO", "text", false)
	defer InitWithWriter(io.Discard, "INFO", "text", false)

	SetFormat("yaml")
	Info("still text")
	assert.Contains(t, buf.String(), "[INFO] still text")
}

// ============================================================================
// Context Tests
// ============================================================================

func TestContextLogging(t *testing.T) {
	t.Run("LogContextInjectsFields", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")

		lc := NewLogContext("10.0.0.5").
			WithRequestID("req-1").
			WithAction("login").
			WithProvider("radius").
			WithTrace("abc123", "def456")
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "authentication finished", KeyOutcome, "pass")

		out := buf.String()
		assert.Contains(t, out, "trace_id=abc123")
		assert.Contains(t, out, "span_id=def456")
		assert.Contains(t, out, "request_id=req-1")
		assert.Contains(t, out, "client_ip=10.0.0.5")
		assert.Contains(t, out, "action=login")
		assert.Contains(t, out, "provider=radius")
		assert.Contains(t, out, "outcome=pass")
	})

	t.Run("ContextWithoutLogContextHandled", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		WarnCtx(context.Background(), "plain")

		assert.Contains(t, buf.String(), "[WARN] plain")
	})

	t.Run("NilContextHandled", func(t *testing.T) {
		//nolint:staticcheck // nil context is exercised on purpose
		assert.Nil(t, FromContext(nil))
	})
}

func TestLogContext(t *testing.T) {
	t.Run("CloneIsIndependent", func(t *testing.T) {
		lc := NewLogContext("192.0.2.1")
		clone := lc.WithProvider("radius")

		assert.Empty(t, lc.Provider)
		assert.Equal(t, "radius", clone.Provider)
		assert.Equal(t, lc.ClientIP, clone.ClientIP)
	})

	t.Run("NilReceiver", func(t *testing.T) {
		var lc *LogContext
		assert.Nil(t, lc.Clone())
		assert.Nil(t, lc.WithAction("login"))
		assert.Zero(t, lc.DurationMs())
	})

	t.Run("DurationMs", func(t *testing.T) {
		lc := &LogContext{StartTime: time.Now().Add(-10 * time.Millisecond)}
		assert.GreaterOrEqual(t, lc.DurationMs(), 10.0)
	})
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "", Err(nil).Value.String())
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, KeyUsername, Username("alice").Key)
	assert.Equal(t, KeyOutcome, Outcome("fail").Key)
	assert.Equal(t, KeyServer, Server("radius:1812").Key)
}

// ============================================================================
// Concurrency Tests
// ============================================================================

func TestConcurrentLogging(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")

	const numGoroutines = 10
	const logsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				Info("goroutine log", "id", id, "iteration", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, numGoroutines*logsPerGoroutine)
}

// ============================================================================
// Init Tests
// ============================================================================

func TestInit(t *testing.T) {
	t.Run("InitWithFile", func(t *testing.T) {
		path := t.TempDir() + "/radiusauth.log"
		require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
		defer InitWithWriter(io.Discard, "INFO", "text", false)

		Info("to file")
	})

	t.Run("InitWithUnwritablePath", func(t *testing.T) {
		err := Init(Config{Output: t.TempDir() + "/missing/dir/log"})
		assert.Error(t, err)
	})
}
