package repos

import (
	"strconv"

	"github.com/jmoiron/sqlx"

	"bookstore/internal/domain"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

const bookCols = `id, name, title, author, price, category, description, image, isbn`

// ListAll returns every book ordered by the numeric value of its id.
func (r *BookRepo) ListAll() ([]domain.Book, error) {
	out := []domain.Book{}
	err := r.db.Select(&out, `
  SELECT `+bookCols+`
  FROM books
  ORDER BY CAST(id AS INTEGER) ASC, id ASC
`)
	return out, err
}

func (r *BookRepo) Get(id string) (domain.Book, error) {
	var b domain.Book
	err := r.db.Get(&b, `SELECT `+bookCols+` FROM books WHERE id = ?`, id)
	return b, err
}

// NextID advances the books counter inside tx and returns the new id.
// The counter starts at 0, so the first id on an empty catalog is "1".
func (r *BookRepo) NextID(tx *sqlx.Tx) (string, error) {
	var n int64
	err := tx.Get(&n, `UPDATE sequences SET value = value + 1 WHERE name = 'books' RETURNING value`)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// Insert assigns the next id and stores b in a single transaction.
func (r *BookRepo) Insert(b domain.Book) (domain.Book, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Book{}, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := r.NextID(tx)
	if err != nil {
		return domain.Book{}, err
	}
	b.ID = id
	if _, err := tx.NamedExec(`
		INSERT INTO books(`+bookCols+`)
		VALUES(:id, :name, :title, :author, :price, :category, :description, :image, :isbn)
	`, b); err != nil {
		return domain.Book{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

// DeleteByID reports whether a row was removed. A missing id is not an error.
func (r *BookRepo) DeleteByID(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BookRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM books`)
	return n, err
}
