package paramlog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doriantaylor/go-params-registry/paramlog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    paramlog.Level
		expectError bool
	}{
		"error level":      {input: "error", expected: paramlog.LevelError},
		"warn level":       {input: "warn", expected: paramlog.LevelWarn},
		"warning level":    {input: "warning", expected: paramlog.LevelWarn},
		"info level":       {input: "info", expected: paramlog.LevelInfo},
		"debug level":      {input: "debug", expected: paramlog.LevelDebug},
		"case insensitive": {input: "INFO", expected: paramlog.LevelInfo},
		"unknown level":    {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := paramlog.ParseLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, paramlog.ErrUnknownLogLevel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, lvl)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    paramlog.Format
		expectError bool
	}{
		"json format":      {input: "json", expected: paramlog.FormatJSON},
		"logfmt format":    {input: "logfmt", expected: paramlog.FormatLogfmt},
		"text format":      {input: "text", expected: paramlog.FormatText},
		"case insensitive": {input: "JSON", expected: paramlog.FormatJSON},
		"unknown format":   {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := paramlog.ParseFormat(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, paramlog.ErrUnknownLogFormat)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, f)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		checkFunc func(*testing.T, []byte)
		format    paramlog.Format
	}{
		"json handler": {
			format: paramlog.FormatJSON,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				var logEntry map[string]any

				err := json.Unmarshal(output, &logEntry)
				require.NoError(t, err)
				assert.Equal(t, "test message", logEntry["msg"])
				assert.Equal(t, "INFO", logEntry["level"])
				assert.Equal(t, "value", logEntry["key"])
			},
		},
		"text handler": {
			format: paramlog.FormatText,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				outputStr := string(output)
				assert.Contains(t, outputStr, "INFO")
				assert.Contains(t, outputStr, "test message")
				assert.Contains(t, outputStr, "key=value")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := paramlog.NewHandler(&buf, paramlog.LevelInfo, tc.format)
			require.NotNil(t, handler)

			logger := slog.New(handler)
			logger.Info("test message", slog.String("key", "value"))

			tc.checkFunc(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler, err := paramlog.NewHandlerFromStrings(&buf, "info", "json")
	require.NoError(t, err)
	require.NotNil(t, handler)

	logger := slog.New(handler)
	logger.Info("test message")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "test message", logEntry["msg"])

	_, err = paramlog.NewHandlerFromStrings(&buf, "nope", "json")
	require.Error(t, err)
	require.ErrorIs(t, err, paramlog.ErrInvalidArgument)

	_, err = paramlog.NewHandlerFromStrings(&buf, "info", "nope")
	require.Error(t, err)
	require.ErrorIs(t, err, paramlog.ErrInvalidArgument)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"log-level completions":  {flag: "log-level", want: paramlog.GetAllLevelStrings()},
		"log-format completions": {flag: "log-format", want: paramlog.GetAllFormatStrings()},
	}

	cfg := paramlog.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			completionFn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := completionFn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		logFunc       func(*slog.Logger)
		level         paramlog.Level
		shouldContain bool
	}{
		"info level passes info log": {
			level:         paramlog.LevelInfo,
			logFunc:       func(logger *slog.Logger) { logger.Info("test message") },
			shouldContain: true,
		},
		"info level blocks debug log": {
			level:         paramlog.LevelInfo,
			logFunc:       func(logger *slog.Logger) { logger.Debug("test message") },
			shouldContain: false,
		},
		"error level blocks info log": {
			level:         paramlog.LevelError,
			logFunc:       func(logger *slog.Logger) { logger.Info("test message") },
			shouldContain: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := paramlog.NewHandler(&buf, tc.level, paramlog.FormatJSON)
			logger := slog.New(handler)

			tc.logFunc(logger)

			if tc.shouldContain {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
