package services

import (
	"time"

	"bookstore/internal/domain"
	"bookstore/internal/repos"
	"bookstore/internal/storage"
	"bookstore/internal/validate"
)

// CatalogService owns every write to the book and ebook collections.
type CatalogService struct {
	Books   *repos.BookRepo
	Ebooks  *repos.EbookRepo
	Files   *storage.Layout
	Uploads *validate.Upload
	Now     func() time.Time
}

func NewCatalogService(books *repos.BookRepo, ebooks *repos.EbookRepo, files *storage.Layout, uploads *validate.Upload) *CatalogService {
	return &CatalogService{Books: books, Ebooks: ebooks, Files: files, Uploads: uploads, Now: time.Now}
}

// BookInput is the raw admin form for a physical book. Price is parsed here
// so JSON numbers and form strings go through the same path.
type BookInput struct {
	Name        string
	Title       string
	Author      string
	Price       string
	Category    string
	Description string
	Image       string
	ISBN        string
}

func (s *CatalogService) ListBooks() ([]domain.Book, error) {
	return s.Books.ListAll()
}

// AddBook validates in, assigns the next sequential id and stores the book.
func (s *CatalogService) AddBook(in BookInput) (domain.Book, error) {
	b, err := bookFromInput(in)
	if err != nil {
		return domain.Book{}, err
	}
	stored, err := s.Books.Insert(b)
	if err != nil {
		return domain.Book{}, &CatalogWriteError{Op: "insert book", Err: err}
	}
	return stored, nil
}

func bookFromInput(in BookInput) (domain.Book, error) {
	var b domain.Book
	var ok bool
	if b.Name, ok = validate.Text(in.Name, 200); !ok {
		return b, invalid("name", "is required (max 200 chars)")
	}
	if b.Title, ok = validate.Text(in.Title, 2000); !ok {
		return b, invalid("title", "is required (max 2000 chars)")
	}
	if b.Price, ok = validate.Price(in.Price); !ok {
		return b, invalid("price", "must be a non-negative number")
	}
	if b.Author, ok = validate.Optional(in.Author, 200); !ok {
		return b, invalid("author", "max 200 chars")
	}
	if b.Author == "" {
		b.Author = domain.DefaultAuthor
	}
	if b.Category, ok = validate.Optional(in.Category, 100); !ok {
		return b, invalid("category", "max 100 chars")
	}
	if b.Description, ok = validate.Optional(in.Description, 5000); !ok {
		return b, invalid("description", "max 5000 chars")
	}
	if b.Image, ok = validate.Optional(in.Image, 2000); !ok {
		return b, invalid("image", "max 2000 chars")
	}
	if b.ISBN, ok = validate.ISBN(in.ISBN); !ok {
		return b, invalid("isbn", "must be an ISBN-10 or ISBN-13")
	}
	return b, nil
}

// DeleteBook removes a book; ErrNotFound when the id is unknown.
func (s *CatalogService) DeleteBook(id string) error {
	found, err := s.Books.DeleteByID(id)
	if err != nil {
		return &CatalogWriteError{Op: "delete book", Err: err}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
