package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookstore/internal/domain"
)

type EbookRepo struct{ db *sqlx.DB }

func NewEbookRepo(db *sqlx.DB) *EbookRepo { return &EbookRepo{db: db} }

const ebookCols = `id, title, author, description, category, cover_image, pdf_file,
    file_size, uploaded_by, upload_date, pages`

// ListAll returns ebooks newest first.
func (r *EbookRepo) ListAll() ([]domain.Ebook, error) {
	out := []domain.Ebook{}
	err := r.db.Select(&out, `
  SELECT `+ebookCols+`
  FROM ebooks
  ORDER BY upload_date DESC, rowid DESC
`)
	return out, err
}

// GetByID returns sql.ErrNoRows when the id is unknown.
func (r *EbookRepo) GetByID(id string) (domain.Ebook, error) {
	var e domain.Ebook
	err := r.db.Get(&e, `SELECT `+ebookCols+` FROM ebooks WHERE id = ?`, id)
	return e, err
}

// Insert stores e under a fresh UUID; any caller supplied id is ignored.
func (r *EbookRepo) Insert(e domain.Ebook) (domain.Ebook, error) {
	e.ID = uuid.NewString()
	e.UploadDate = e.UploadDate.UTC()
	_, err := r.db.NamedExec(`
		INSERT INTO ebooks(`+ebookCols+`)
		VALUES(:id, :title, :author, :description, :category, :cover_image, :pdf_file,
		       :file_size, :uploaded_by, :upload_date, :pages)
	`, e)
	if err != nil {
		return domain.Ebook{}, err
	}
	return e, nil
}

// DeleteByID removes the row and returns what was stored, or sql.ErrNoRows.
func (r *EbookRepo) DeleteByID(id string) (domain.Ebook, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Ebook{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var e domain.Ebook
	if err := tx.Get(&e, `SELECT `+ebookCols+` FROM ebooks WHERE id = ?`, id); err != nil {
		return domain.Ebook{}, err
	}
	res, err := tx.Exec(`DELETE FROM ebooks WHERE id = ?`, id)
	if err != nil {
		return domain.Ebook{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Ebook{}, sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return domain.Ebook{}, errors.Wrap(err, "commit ebook delete")
	}
	return e, nil
}
