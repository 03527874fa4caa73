package validate

import (
	"fmt"
	"math/rand"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"bookstore/internal/storage"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrUnexpectedField = errors.New("unexpected field")
	ErrFileTooLarge    = errors.New("file too large")
)

// Multipart field names accepted by the ebook upload.
const (
	FieldCover    = "coverImage"
	FieldDocument = "pdfFile"
)

const DefaultMaxUpload = 50 << 20

var extCleaner = strings.NewReplacer("/", "", "\\", "", "\x00", "")

// Upload decides which uploaded files are accepted and how they are named.
type Upload struct {
	MaxBytes int64
	Now      func() time.Time
}

func NewUpload(maxBytes int64) *Upload {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUpload
	}
	return &Upload{MaxBytes: maxBytes, Now: time.Now}
}

// Check validates one uploaded part and returns where it should be stored.
func (u *Upload) Check(field, contentType string, size int64) (storage.Kind, error) {
	mt := mediaType(contentType)
	var kind storage.Kind
	switch field {
	case FieldCover:
		if !strings.HasPrefix(mt, "image/") {
			return "", errors.Wrap(ErrInvalidFileType, "only image files are allowed for cover")
		}
		kind = storage.Cover
	case FieldDocument:
		if mt != "application/pdf" {
			return "", errors.Wrap(ErrInvalidFileType, "only PDF files are allowed")
		}
		kind = storage.Document
	default:
		return "", errors.Wrapf(ErrUnexpectedField, "%q", field)
	}
	if size > u.MaxBytes {
		return "", errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", field, u.MaxBytes)
	}
	return kind, nil
}

// FileName builds a collision resistant name from a nanosecond timestamp and a
// random component, keeping the original extension.
func (u *Upload) FileName(original string) string {
	ext := extCleaner.Replace(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 {
		ext = ext[:10]
	}
	return fmt.Sprintf("%d-%09d%s", u.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
}

func mediaType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}
