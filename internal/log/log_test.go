package log_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	applog "bookstore/internal/log"
)

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestEntriesCarryActionLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()

	applog.Audit(nil, "book.create", map[string]any{"id": "8"})
	applog.Warn(nil, "ebook.file.orphan", errors.New("permission denied"), nil)

	got := entries(t, &buf)
	require.Len(t, got, 2)

	assert.Equal(t, "book.create", got[0]["action"])
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, true, got[0]["audit"])
	assert.Equal(t, map[string]any{"id": "8"}, got[0]["fields"])
	assert.Contains(t, got[0], "ts")

	assert.Equal(t, "ebook.file.orphan", got[1]["action"])
	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, "permission denied", got[1]["err"])
	assert.NotContains(t, got[1], "audit")
}

func TestSetupRespectsLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	applog.Setup(applog.Options{Level: "warn", File: file, MaxSizeMB: 1})
	defer applog.Setup(applog.Options{})

	assert.Nil(t, applog.L().Check(zapcore.DebugLevel, "debug.dropped"))
	assert.NotNil(t, applog.L().Check(zapcore.ErrorLevel, "error.kept"))
}
