package repos_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/domain"
	"bookstore/internal/repos"
)

func TestSeedCatalog_IdempotentAndAdvancesSequence(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	n, err := repos.SeedCatalog(db)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	again, err := repos.SeedCatalog(db)
	require.NoError(t, err)
	assert.Zero(t, again)

	books := repos.NewBookRepo(db)
	count, err := books.Count()
	require.NoError(t, err)
	assert.Equal(t, n, count)

	b, err := books.Insert(domain.Book{Name: "n", Title: "t", Author: "a"})
	require.NoError(t, err)
	assert.Equal(t, "8", b.ID)
}

func TestBookRepo_DeleteByIDReportsMissing(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	books := repos.NewBookRepo(db)

	found, err := books.DeleteByID("1")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = books.Insert(domain.Book{Name: "n", Title: "t", Author: "a"})
	require.NoError(t, err)
	found, err = books.DeleteByID("1")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = books.Get("1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestEbookRepo_InsertGetDelete(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ebooks := repos.NewEbookRepo(db)

	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e, err := ebooks.Insert(domain.Ebook{
		ID: "ignored", Title: "T", Author: "A", Description: "D", Category: "General",
		CoverImage: "/uploads/covers/c.png", PDFFile: "/uploads/documents/d.pdf",
		FileSize: "0.01 MB", UploadedBy: "admin", UploadDate: when,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", e.ID)

	got, err := ebooks.GetByID(e.ID)
	require.NoError(t, err)
	assert.True(t, when.Equal(got.UploadDate), "got %v", got.UploadDate)
	assert.Equal(t, "/uploads/documents/d.pdf", got.PDFFile)

	removed, err := ebooks.DeleteByID(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, removed.ID)

	_, err = ebooks.DeleteByID(e.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, repos.EnsureAdmin(db, "admin", "first-pass"))
	require.NoError(t, repos.EnsureAdmin(db, "admin", "second-pass"))

	u, err := repos.NewUserRepo(db).ByName("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}
