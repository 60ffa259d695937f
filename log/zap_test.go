// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(7, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "test debug", entry["msg"])
		assert.Equal(t, DebugLevel.String(), entry["level"])
	})
	t.Run("With info level drops debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())
		require.False(t, logger.Enabled(DebugLevel))
		require.True(t, logger.Enabled(WarningLevel))

		logger.Debug("hidden")
		assert.Zero(t, buffer.Len())

		logger.Infof("node %d", 42)
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "node 42", entry["msg"])
		assert.Equal(t, "info", entry["level"])
	})
	t.Run("With warn and error levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Warnf("arena at %d%%", 90)
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "arena at 90%", entry["msg"])
		assert.Equal(t, "warn", entry["level"])

		buffer.Reset()
		logger.Error("boom")
		entry = decodeEntry(t, buffer)
		assert.Equal(t, "error", entry["level"])
		assert.Contains(t, entry, "stacktrace")
	})
	t.Run("With panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		require.Equal(t, PanicLevel, logger.LogLevel())
		assert.Panics(t, func() { logger.Panicf("bad %s", "state") })
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "bad state", entry["msg"])
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With(
			"stack", "tasks",
			"live", 3,
			"claims", uint32(2),
			"drained", int64(4),
			"total", uint64(5),
			"ok", true,
			"delay", time.Millisecond,
			"err", errors.New("oops"),
			"other", []int{1},
			42, "skipped",
			"orphan",
		).Info("drained")

		entry := decodeEntry(t, buffer)
		for _, key := range []string{"stack", "live", "claims", "drained", "total", "ok", "delay", "err", "other", "_"} {
			assert.Contains(t, entry, key)
		}
		assert.Equal(t, "tasks", entry["stack"])
	})
	t.Run("With no usable fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, 2, 3, 4))
	})
	t.Run("With outputs", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer, os.Stdout)
		assert.Len(t, logger.LogOutput(), 2)
		assert.Len(t, logger.With("k", "v").LogOutput(), 2)
	})
	t.Run("With Flush on a file output", func(t *testing.T) {
		file, err := os.CreateTemp(t.TempDir(), "log")
		require.NoError(t, err)
		defer file.Close()

		logger := NewZap(InfoLevel, file)
		logger.Info("persisted")
		require.NoError(t, logger.Flush())

		content, err := os.ReadFile(file.Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "persisted")
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("x")
	logger.Debugf("%s", "x")
	logger.Info("x")
	logger.Infof("%s", "x")
	logger.Warn("x")
	logger.Warnf("%s", "x")
	logger.Error("x")
	logger.Errorf("%s", "x")

	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.False(t, logger.Enabled(DebugLevel))
	assert.True(t, logger.Enabled(PanicLevel))
	assert.Equal(t, DiscardLogger, logger.With("k", "v"))
	assert.Len(t, logger.LogOutput(), 1)
	assert.NoError(t, logger.Flush())
	assert.Panics(t, func() { logger.Panic("x") })
	assert.Panics(t, func() { logger.Panicf("%s", "x") })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		" warn ":  WarningLevel,
		"warning": WarningLevel,
		"error":   ErrorLevel,
		"panic":   PanicLevel,
		"fatal":   FatalLevel,
	}
	for name, expected := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	level, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Equal(t, InvalidLevel, level)
	assert.Empty(t, InvalidLevel.String())
}

func decodeEntry(t *testing.T, buffer *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buffer.Bytes()), &entry))
	return entry
}
