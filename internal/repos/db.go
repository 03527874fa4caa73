package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"bookstore/internal/domain"
	applog "bookstore/internal/log"
)

// fileParams make writers queue on the database lock instead of failing with
// SQLITE_BUSY: transactions take the write lock at BEGIN and wait up to 5s.
const fileParams = "_pragma=busy_timeout(5000)&_txlock=immediate"

// withFileParams adds fileParams to file DSNs that don't set their own.
func withFileParams(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") ||
		strings.Contains(dsn, "busy_timeout") || strings.Contains(dsn, "_txlock") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + fileParams
	}
	return dsn + "?" + fileParams
}

// OpenDB opens the sqlite database and makes sure the schema exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withFileParams(dsn))
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, errors.Wrap(err, "ensure schema")
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Physical books
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  title TEXT NOT NULL,
  author TEXT NOT NULL DEFAULT 'Unknown',
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  isbn TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_books_category ON books(category);

-- Id counters; rows only move forward
CREATE TABLE IF NOT EXISTS sequences(
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL DEFAULT 0
);
INSERT INTO sequences(name, value) VALUES ('books', 0) ON CONFLICT(name) DO NOTHING;

-- Ebooks
CREATE TABLE IF NOT EXISTS ebooks(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT 'General',
  cover_image TEXT NOT NULL,
  pdf_file TEXT NOT NULL,
  file_size TEXT NOT NULL DEFAULT '',
  uploaded_by TEXT NOT NULL,
  upload_date DATETIME NOT NULL,
  pages INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_ebooks_upload_date ON ebooks(upload_date);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_name ON users(LOWER(name));
`
	_, err := db.Exec(schema)
	return err
}

// EnsureAdmin makes sure an ADMIN user with the given name exists (idempotent).
// The password is only hashed when the row is first created.
func EnsureAdmin(db *sqlx.DB, name, password string) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(name)=LOWER(?)`, name); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES(?,?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`, "u-"+name, name+"@bookstore.local", name, string(h), domain.RoleAdmin)
	if err == nil {
		applog.Info(nil, "seed.admin", map[string]any{"name": name})
	}
	return err
}

type seedBook struct {
	ID, Name, Title, Category, Image string
	Price                            float64
}

var starterBooks = []seedBook{
	{"1", "Story Book", "Dive into an enchanting collection of short stories that blend adventure, imagination, and timeless morals.", "Free", "https://img.freepik.com/free-photo/open-book-concept-fairy-tale-fiction-storytelling_23-2150793729.jpg", 10},
	{"2", "Entertainment Book", "A lively collection of stories and features packed with humor, suspense, and cinematic moments.", "Cinema", "https://img.freepik.com/premium-photo/yellow-headphones-book_410516-66153.jpg", 50},
	{"3", "Food Book", "Discover mouthwatering recipes, cooking tips, and food stories from across the globe.", "Food", "https://img.freepik.com/premium-photo/closeup-hands-holding-cookbook-with-vibrant-generative-ai_883586-222572.jpg", 100},
	{"4", "Motivational Book", "A powerful guide filled with real-life stories, mindset shifts, and strategies to overcome obstacles.", "Motivation", "https://img.freepik.com/premium-photo/handwriting-think-bubble_1262102-14659.jpg", 200},
	{"5", "Sport Book", "Explore iconic sports moments, inspiring athletes, and winning techniques.", "Sports", "https://img.freepik.com/premium-photo/clipboard-sports-equipment_926199-3764664.jpg", 400},
	{"6", "Science Book", "Dive into the fascinating world of science with easy explanations and real-life applications.", "Science", "https://img.freepik.com/premium-photo/book-that-has-word-science-it_1058338-3678.jpg", 200},
	{"7", "Tech Book", "Explore emerging technologies, artificial intelligence, and the future of connectivity.", "Tech", "https://img.freepik.com/premium-psd/3-d-illustration-information-technology-book-icon_727843-1777.jpg", 500},
}

// SeedCatalog inserts the starter books if they don't already exist and moves
// the book id counter past them. Safe to run on every invocation.
func SeedCatalog(db *sqlx.DB) (int, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, b := range starterBooks {
		res, err := tx.Exec(`
			INSERT INTO books(id,name,title,author,price,category,description,image)
			VALUES(?,?,?,?,?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`, b.ID, b.Name, b.Title, domain.DefaultAuthor, b.Price, b.Category, "", b.Image)
		if err != nil {
			return 0, errors.Wrapf(err, "seed book %s", b.ID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if _, err := tx.Exec(`
		UPDATE sequences
		SET value = MAX(value, (SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) FROM books))
		WHERE name = 'books'
	`); err != nil {
		return 0, errors.Wrap(err, "advance book sequence")
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	applog.Info(nil, "seed.catalog", map[string]any{"added": added})
	return added, nil
}
