// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/socklens/socklens/internal/config"
)

// testSink is an in-memory WriteSyncer for asserting on log output.
type testSink struct {
	bytes.Buffer
}

func (*testSink) Sync() error { return nil }

func initWithSink(cfg config.LoggerConfig) *testSink {
	ResetForTest()
	sink := &testSink{}
	Initialize(cfg, zapcore.Lock(sink))
	return sink
}

func TestInitialize(t *testing.T) {
	t.Cleanup(ResetForTest)

	t.Run("console format colorizes the level", func(t *testing.T) {
		sink := initWithSink(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors:      config.ColorConfig{Info: "green"},
		})

		GetLogger().Info("this is a test message")
		Sync()

		output := sink.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "this is a test message")
		assert.Contains(t, output, colorGreen)
		assert.Contains(t, output, colorReset)
	})

	t.Run("json format emits valid objects", func(t *testing.T) {
		sink := initWithSink(config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "JSONTest",
		})

		GetLogger().Warn("a json message", zap.String("key", "value"))
		Sync()

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(sink.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "JSONTest", entry["logger"])
		assert.Equal(t, "a json message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("file core writes alongside the console core", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "socklens-test.log")
		sink := initWithSink(config.LoggerConfig{
			Level:   "debug",
			Format:  "json",
			LogFile: logFile,
			MaxSize: 1,
		})

		GetLogger().Error("this should go to the file")
		Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "this should go to the file")
		assert.Contains(t, sink.String(), "this should go to the file")
	})

	t.Run("initializes only once", func(t *testing.T) {
		sink := initWithSink(config.LoggerConfig{Level: "info", ServiceName: "First"})
		first := GetLogger()

		Initialize(config.LoggerConfig{Level: "debug", ServiceName: "Second"}, zapcore.Lock(sink))
		second := GetLogger()

		assert.Equal(t, first, second)
		second.Info("test")
		Sync()
		assert.True(t, strings.Contains(sink.String(), "First"))
		assert.False(t, strings.Contains(sink.String(), "Second"))
	})

	t.Run("messages below the level are dropped", func(t *testing.T) {
		sink := initWithSink(config.LoggerConfig{Level: "warn", Format: "console"})
		GetLogger().Info("too quiet")
		Sync()
		assert.NotContains(t, sink.String(), "too quiet")
	})
}

func TestGetLogger_FallbackBeforeInitialization(t *testing.T) {
	t.Cleanup(ResetForTest)
	ResetForTest()
	require.NotNil(t, GetLogger())
}

func TestGetLogger_ReturnsStoredInstance(t *testing.T) {
	t.Cleanup(ResetForTest)
	initWithSink(config.LoggerConfig{Level: "info", ServiceName: "GlobalTest"})
	assert.Equal(t, globalLogger.Load(), GetLogger())
}
