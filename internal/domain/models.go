package domain

import "time"

// Book is a physical catalog entry. ID is the public sequential identifier.
type Book struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Title       string  `db:"title" json:"title"`
	Author      string  `db:"author" json:"author"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
	Description string  `db:"description" json:"description"`
	Image       string  `db:"image" json:"image"`
	ISBN        string  `db:"isbn" json:"isbn,omitempty"`
}

// Ebook is a digital catalog entry backed by a cover image and a PDF on disk.
type Ebook struct {
	ID          string    `db:"id" json:"_id"`
	Title       string    `db:"title" json:"title"`
	Author      string    `db:"author" json:"author"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	CoverImage  string    `db:"cover_image" json:"coverImage"`
	PDFFile     string    `db:"pdf_file" json:"pdfFile"`
	FileSize    string    `db:"file_size" json:"fileSize"`
	UploadedBy  string    `db:"uploaded_by" json:"uploadedBy"`
	UploadDate  time.Time `db:"upload_date" json:"uploadDate"`
	Pages       int       `db:"pages" json:"pages"`
}

const (
	DefaultAuthor   = "Unknown"
	DefaultCategory = "General"
)
