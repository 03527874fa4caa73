package services

import (
	"database/sql"
	"fmt"
	"mime/multipart"

	"github.com/pkg/errors"

	"bookstore/internal/domain"
	applog "bookstore/internal/log"
	"bookstore/internal/storage"
	"bookstore/internal/validate"
)

// EbookInput carries the text fields of an ebook upload.
type EbookInput struct {
	Title       string
	Author      string
	Description string
	Category    string
	UploadedBy  string
}

func (s *CatalogService) ListEbooks() ([]domain.Ebook, error) {
	return s.Ebooks.ListAll()
}

func (s *CatalogService) GetEbook(id string) (domain.Ebook, error) {
	e, err := s.Ebooks.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ebook{}, ErrNotFound
	}
	return e, err
}

// AddEbook checks every uploaded part, stores the cover and the PDF and
// records the ebook. Nothing is written unless all parts and fields pass.
func (s *CatalogService) AddEbook(in EbookInput, files map[string][]*multipart.FileHeader) (domain.Ebook, error) {
	for field, hs := range files {
		if len(hs) > 1 {
			return domain.Ebook{}, errors.Wrapf(validate.ErrUnexpectedField, "%q sent more than once", field)
		}
		for _, h := range hs {
			if _, err := s.Uploads.Check(field, h.Header.Get("Content-Type"), h.Size); err != nil {
				return domain.Ebook{}, err
			}
		}
	}
	cover, doc := first(files[validate.FieldCover]), first(files[validate.FieldDocument])
	if cover == nil || doc == nil {
		return domain.Ebook{}, ErrMissingRequiredFile
	}

	e, err := ebookFromInput(in)
	if err != nil {
		return domain.Ebook{}, err
	}

	coverPath, _, err := s.store(storage.Cover, cover)
	if err != nil {
		return domain.Ebook{}, err
	}
	pdfPath, size, err := s.store(storage.Document, doc)
	if err != nil {
		s.discard(storage.Cover, coverPath)
		return domain.Ebook{}, err
	}

	e.CoverImage = coverPath
	e.PDFFile = pdfPath
	e.FileSize = formatMB(size)
	e.UploadDate = s.Now()

	stored, err := s.Ebooks.Insert(e)
	if err != nil {
		s.discard(storage.Cover, coverPath)
		s.discard(storage.Document, pdfPath)
		return domain.Ebook{}, &CatalogWriteError{Op: "insert ebook", Err: err}
	}
	return stored, nil
}

// DeleteEbook removes the backing files on a best-effort basis and then the
// record. Missing files never block the record delete.
func (s *CatalogService) DeleteEbook(id string) error {
	e, err := s.Ebooks.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return &CatalogWriteError{Op: "load ebook", Err: err}
	}

	s.discard(storage.Cover, e.CoverImage)
	s.discard(storage.Document, e.PDFFile)

	if _, err := s.Ebooks.DeleteByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return &CatalogWriteError{Op: "delete ebook", Err: err}
	}
	return nil
}

func ebookFromInput(in EbookInput) (domain.Ebook, error) {
	var e domain.Ebook
	var ok bool
	if e.Title, ok = validate.Text(in.Title, 300); !ok {
		return e, invalid("title", "is required (max 300 chars)")
	}
	if e.Author, ok = validate.Text(in.Author, 200); !ok {
		return e, invalid("author", "is required (max 200 chars)")
	}
	if e.Description, ok = validate.Text(in.Description, 5000); !ok {
		return e, invalid("description", "is required (max 5000 chars)")
	}
	if e.Category, ok = validate.Optional(in.Category, 100); !ok {
		return e, invalid("category", "max 100 chars")
	}
	if e.Category == "" {
		e.Category = domain.DefaultCategory
	}
	e.UploadedBy = in.UploadedBy
	if e.UploadedBy == "" {
		e.UploadedBy = "admin"
	}
	return e, nil
}

func (s *CatalogService) store(kind storage.Kind, h *multipart.FileHeader) (string, int64, error) {
	f, err := h.Open()
	if err != nil {
		return "", 0, &StorageError{Op: "open upload", Err: err}
	}
	defer f.Close()
	rel, n, err := s.Files.Save(kind, s.Uploads.FileName(h.Filename), f)
	if err != nil {
		return "", 0, &StorageError{Op: "store " + string(kind), Err: err}
	}
	return rel, n, nil
}

// discard removes a stored file and only logs failures; the leftover file is
// an orphan, not an error for the caller.
func (s *CatalogService) discard(kind storage.Kind, rel string) {
	if err := s.Files.Remove(kind, rel); err != nil {
		applog.Warn(nil, "ebook.file.orphan", err, map[string]any{"kind": string(kind), "path": rel})
	}
}

func first(hs []*multipart.FileHeader) *multipart.FileHeader {
	if len(hs) == 0 {
		return nil
	}
	return hs[0]
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
