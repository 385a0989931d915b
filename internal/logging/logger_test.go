package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, GetLevel("debug"))
	assert.Equal(t, log.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, log.ErrorLevel, GetLevel("error"))
	assert.Equal(t, log.FatalLevel, GetLevel("fatal"))
	assert.Equal(t, log.InfoLevel, GetLevel("info"))
	assert.Equal(t, log.TraceLevel, GetLevel("trace"))
	assert.Equal(t, log.WarnLevel, GetLevel("warn"))
	assert.Equal(t, log.WarnLevel, GetLevel("warning"))
	assert.Equal(t, log.InfoLevel, GetLevel("whatever"))
}

func TestSetup_LogFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logFile := filepath.Join(t.TempDir(), "sportfrei")
	outputs := Setup(LoggerSetupParams{
		LogFileName: logFile,
		LogLevel:    "debug",
	})
	require.NotNil(t, outputs)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.Debugln("hello from test")
	outputs.MuteStdout()
	log.Debugln("still in file")
	require.NoError(t, outputs.Close())

	content, err := os.ReadFile(logFile + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello from test")
	assert.Contains(t, string(content), "still in file")
}

func TestSetup_Stdout(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	outputs := Setup(LoggerSetupParams{LogLevel: "error"})
	require.NotNil(t, outputs)
	assert.Equal(t, log.ErrorLevel, log.GetLevel())
	assert.Equal(t, os.Stdout, log.StandardLogger().Out)
	outputs.MuteStdout()
	assert.NotEqual(t, os.Stdout, log.StandardLogger().Out)
	assert.NoError(t, outputs.Close())
}

func TestSentryEventFromEntry(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := &log.Entry{
		Level:   log.ErrorLevel,
		Message: "load activities failed",
		Time:    now,
		Data: log.Fields{
			log.ErrorKey: errors.New("timeout"),
			"page":       3,
		},
	}

	event := sentryEventFromEntry(entry)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "load activities failed", event.Message)
	assert.Equal(t, now, event.Timestamp)
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "timeout", event.Exception[0].Value)
	assert.Equal(t, 3, event.Extra["page"])
}
