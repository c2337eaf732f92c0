package lib

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultLogger(t *testing.T) {
	// pre-define expected
	expected := NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   os.Stdout,
	})
	// execute the function call
	got := NewDefaultLogger()
	// compare got vs expected
	require.Equal(t, got, expected)
}

func TestNewNullLogger(t *testing.T) {
	// pre-define expected
	expected := NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   io.Discard,
	})
	// execute the function call
	got := NewNullLogger()
	// compare got vs expected
	require.Equal(t, got, expected)
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		colorFn func(format string, a ...interface{}) string
		log     func(l LoggerI)
	}{
		{
			name:    "debug",
			label:   "DEBUG",
			colorFn: color.BlueString,
			log:     func(l LoggerI) { l.Debug("arg1 arg2") },
		},
		{
			name:    "info",
			label:   "INFO",
			colorFn: color.GreenString,
			log:     func(l LoggerI) { l.Info("arg1 arg2") },
		},
		{
			name:    "warn",
			label:   "WARN",
			colorFn: color.YellowString,
			log:     func(l LoggerI) { l.Warn("arg1 arg2") },
		},
		{
			name:    "error",
			label:   "ERROR",
			colorFn: color.RedString,
			log:     func(l LoggerI) { l.Error("arg1 arg2") },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// pre-define a buffer backed logger
			buf := bytes.NewBuffer(nil)
			logger := NewLogger(LoggerConfig{
				Level: DebugLevel,
				Out:   buf,
			})
			// execute the log call
			test.log(logger)
			// compare got vs expected
			expected := test.colorFn(test.label + ": arg1 arg2")
			require.Contains(t, buf.String(), expected)
		})
	}
}

func TestLoggerFormat(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		colorFn func(format string, a ...interface{}) string
		log     func(l LoggerI)
	}{
		{
			name:    "debug",
			label:   "DEBUG",
			colorFn: color.BlueString,
			log:     func(l LoggerI) { l.Debugf("%s %s", "arg1", "arg2") },
		},
		{
			name:    "info",
			label:   "INFO",
			colorFn: color.GreenString,
			log:     func(l LoggerI) { l.Infof("%s %s", "arg1", "arg2") },
		},
		{
			name:    "warn",
			label:   "WARN",
			colorFn: color.YellowString,
			log:     func(l LoggerI) { l.Warnf("%s %s", "arg1", "arg2") },
		},
		{
			name:    "error",
			label:   "ERROR",
			colorFn: color.RedString,
			log:     func(l LoggerI) { l.Errorf("%s %s", "arg1", "arg2") },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// pre-define a buffer backed logger
			buf := bytes.NewBuffer(nil)
			logger := NewLogger(LoggerConfig{
				Level: DebugLevel,
				Out:   buf,
			})
			// execute the log call
			test.log(logger)
			// compare got vs expected
			expected := test.colorFn(test.label + ": arg1 arg2")
			require.Contains(t, buf.String(), expected)
		})
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	// pre-define a logger that only accepts warn and above
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(LoggerConfig{
		Level: WarnLevel,
		Out:   buf,
	})
	// a level below the configured one is dropped
	logger.Info("quiet")
	require.Empty(t, buf.String())
	// a level at the configured one is written
	logger.Warn("loud")
	require.Contains(t, buf.String(), "loud")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected int32
		error    string
	}{
		{
			name:     "debug",
			level:    "debug",
			expected: DebugLevel,
		},
		{
			name:     "info",
			level:    "info",
			expected: InfoLevel,
		},
		{
			name:     "empty defaults to info",
			level:    "",
			expected: InfoLevel,
		},
		{
			name:     "mixed case",
			level:    "WaRn",
			expected: WarnLevel,
		},
		{
			name:     "error",
			level:    "error",
			expected: ErrorLevel,
		},
		{
			name:  "unknown",
			level: "loudest",
			error: "is invalid",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, err := ParseLogLevel(test.level)
			// compare got vs expected
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, got)
		})
	}
}
