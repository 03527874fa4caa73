package services_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"bookstore/internal/repos"
	"bookstore/internal/services"
	"bookstore/internal/storage"
	"bookstore/internal/validate"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// filedb opens a database file, the way serve does.
func filedb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "bookstore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newCatalog(t *testing.T) (*services.CatalogService, *sqlx.DB, string) {
	t.Helper()
	return newCatalogOn(t, memdb(t))
}

func newCatalogOn(t *testing.T, db *sqlx.DB) (*services.CatalogService, *sqlx.DB, string) {
	t.Helper()
	root := t.TempDir()
	svc := services.NewCatalogService(
		repos.NewBookRepo(db),
		repos.NewEbookRepo(db),
		storage.New(root),
		validate.NewUpload(validate.DefaultMaxUpload),
	)
	return svc, db, root
}

type part struct {
	field, filename, contentType string
	body                         []byte
}

// fileHeaders round-trips parts through a real multipart body so the headers
// look exactly like the ones fiber hands to handlers.
func fileHeaders(t *testing.T, parts ...part) map[string][]*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File
}

func coverPart() part {
	return part{validate.FieldCover, "cover.png", "image/png", []byte("\x89PNG fake")}
}

func pdfPart(size int) part {
	return part{validate.FieldDocument, "book.pdf", "application/pdf", bytes.Repeat([]byte("P"), size)}
}
