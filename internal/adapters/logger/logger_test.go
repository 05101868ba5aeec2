package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/adapters/logger"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("installed jdk-17-openjdk")
	lg.Warn("archive kept")

	assert.Equal(t, "installed jdk-17-openjdk\n! archive kept\n", buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	cause := zerr.With(zerr.New("archive not found"), "path", "/tmp/missing.zip")
	lg.Error(zerr.Wrap(cause, "failed to install runtime"))

	g := goldie.New(t)
	g.Assert(t, "logger_error_chain", buf.Bytes())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "hello", rec["msg"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "boom", rec["msg"])
}

func TestLogger_File(t *testing.T) {
	lg, buf := newTestLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "jman.log")

	lg.SetFile(path, logger.FileOptions{MaxSizeMB: 1})
	lg.Info("mirrored")
	require.NoError(t, lg.Close())

	assert.Equal(t, "mirrored\n", buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "mirrored", rec["msg"])
}

func TestLogger_FileKeepsConsoleChain(t *testing.T) {
	lg, buf := newTestLogger(t)
	path := filepath.Join(t.TempDir(), "jman.log")

	lg.SetFile(path, logger.FileOptions{MaxSizeMB: 1})
	lg.Error(zerr.Wrap(zerr.New("disk full"), "failed to extract archive"))
	require.NoError(t, lg.Close())

	assert.Contains(t, buf.String(), "Caused by:")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Contains(t, rec[logger.ErrorKey], "disk full")
}

func TestFromSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jman.log")

	lg := logger.FromSettings(config.LogSettings{File: path, MaxSizeMB: 1})
	lg.SetOutput(&bytes.Buffer{})
	lg.Warn("written")
	require.NoError(t, lg.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{"standard error", errors.New("simple error"), []string{"simple error"}},
		{
			"zerr chain",
			zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			[]string{"outer", "middle", "root cause"},
		},
		{
			"joined sentinel and cause",
			errors.Join(domain.ErrInstallFailed, zerr.Wrap(domain.ErrVersionMismatch, "expected 17, found 11")),
			[]string{"failed to install runtime", "expected 17, found 11", domain.ErrVersionMismatch.Error()},
		},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			got := make([]string, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.Message)
			}
			if tt.wantMessages == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantMessages, got)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	err := zerr.With(zerr.With(zerr.New("base"), "b", 2), "a", "x")

	entries := logger.CollectErrorEntriesExported(err)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"a": "x", "b": 2}, entries[0].Metadata)
}

func TestCollectErrorEntries_JoinedWithMetadata(t *testing.T) {
	err := zerr.With(errors.Join(domain.ErrUpdateFailed, errors.New("disk full")), "instance_id", "jdk-17-openjdk")

	entries := logger.CollectErrorEntriesExported(err)
	require.Len(t, entries, 2)
	assert.Equal(t, "failed to install update", entries[0].Message)
	assert.Equal(t, "jdk-17-openjdk", entries[0].Metadata["instance_id"])
	assert.Equal(t, "disk full", entries[1].Message)
	require.ErrorIs(t, err, domain.ErrUpdateFailed)
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{"single", []logger.ErrorEntry{{Message: "single error"}}, "Error: single error"},
		{
			"caused by",
			[]logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			"Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			"sorted metadata on main error",
			[]logger.ErrorEntry{{Message: "main", Metadata: map[string]any{"zebra": "z", "alpha": "a"}}},
			"Error: main\n       alpha: a\n       zebra: z",
		},
		{
			"multiline cause with metadata",
			[]logger.ErrorEntry{{Message: "main"}, {Message: "l1\nl2", Metadata: map[string]any{"k": "v"}}},
			"Error: main\n\n  Caused by:\n    → l1\n      l2\n      k: v",
		},
		{"empty", []logger.ErrorEntry{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
