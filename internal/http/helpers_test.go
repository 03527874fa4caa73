package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"bookstore/internal/config"
	"bookstore/internal/http/handlers"
	applog "bookstore/internal/log"
	"bookstore/internal/repos"
)

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	cfg  config.Config
}

func newTestEnv(t *testing.T, opts handlers.AppOptions) *testEnv {
	t.Helper()
	cfg := config.Config{
		DBDSN:         ":memory:",
		UploadDir:     t.TempDir(),
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminUsername: "admin",
		AdminPassword: "admin123",
		MaxUploadMB:   1,
		CORSOrigins:   []string{"http://localhost:5173"},
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repos.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword))

	if opts.RateMax == 0 {
		opts.RateMax = 1000
	}
	if opts.LoginMax == 0 {
		opts.LoginMax = 1000
	}
	deps := handlers.NewDeps(db, cfg)
	return &testEnv{app: handlers.NewApp(cfg, deps, opts), deps: deps, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(body, &out)
	return resp, out
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	req := jsonReq("POST", "/admin/login", `{"username":"admin","password":"admin123"}`, "")
	resp, body := e.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func jsonReq(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type filePart struct {
	field, name, contentType string
	body                     []byte
}

func multipartReq(t *testing.T, path, token string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Audit  bool           `json:"audit"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	restore := applog.SetOutput(&buf)
	defer restore()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

// removeAndMkdir swaps a file for a non-empty directory of the same name.
func removeAndMkdir(p string) error {
	if err := os.Remove(p); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(p, "keep"), 0o755); err != nil {
		return err
	}
	return nil
}
