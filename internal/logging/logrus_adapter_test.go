package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(base), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "warn text", level: "warn", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.DebugLevel)

	logger.Debug("fetching source", F(FieldURL, "https://example.test/income.csv"))
	logger.Info("imported rows", F(FieldKind, "income"), F(FieldCount, 3))
	logger.Warn("date left as typed", F(FieldRecordID, "abc"))
	logger.Error("persist failed", F(FieldBackend, "file"))

	out := buf.String()
	assert.Contains(t, out, "fetching source")
	assert.Contains(t, out, "imported rows")
	assert.Contains(t, out, "kind=income")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "date left as typed")
	assert.Contains(t, out, "backend=file")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusAdapter_ChainedContext(t *testing.T) {
	logger, buf := bufferedAdapter(logrus.InfoLevel)

	logger.
		WithField(FieldKind, "bills").
		WithFields(F(FieldToken, 4)).
		WithError(errors.New("connection refused")).
		Error("load failed")

	out := buf.String()
	assert.Contains(t, out, "load failed")
	assert.Contains(t, out, "kind=bills")
	assert.Contains(t, out, "request_token=4")
	assert.Contains(t, out, "connection refused")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("a", "x"), F("b", 2)})
	assert.Len(t, fields, 2)
	assert.Equal(t, "x", fields["a"])
	assert.Equal(t, 2, fields["b"])
	assert.Empty(t, convertFields(nil))
}

func TestMockLogger_SharesEntriesWithDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("root")
	mock.WithField(FieldKind, "income").Warn("derived")
	mock.WithError(errors.New("boom")).Error("failed")

	entries := mock.GetEntries()
	require.Len(t, entries, 3)
	assert.True(t, mock.HasEntry("WARN", "derived"))
	assert.Equal(t, []Field{F(FieldKind, "income")}, entries[1].Fields)
	assert.EqualError(t, entries[2].Error, "boom")
	assert.Len(t, mock.GetEntriesByLevel("ERROR"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
