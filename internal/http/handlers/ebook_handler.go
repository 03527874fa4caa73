package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookstore/internal/log"
	"bookstore/internal/services"
	"bookstore/internal/validate"
)

type EbookHandler struct {
	Catalog *services.CatalogService
}

// GET /ebooks
func (h *EbookHandler) List(c *fiber.Ctx) error {
	ebooks, err := h.Catalog.ListEbooks()
	if err != nil {
		return fail(c, "ebooks.list", "Ebook", err)
	}
	return c.JSON(ebooks)
}

// GET /ebooks/:id
func (h *EbookHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.EbookID(c.Params("id"))
	if !ok {
		return fail(c, "ebooks.get", "Ebook", services.ErrNotFound)
	}
	e, err := h.Catalog.GetEbook(id)
	if err != nil {
		return fail(c, "ebooks.get", "Ebook", err)
	}
	return c.JSON(e)
}

// POST /ebooks (multipart: coverImage, pdfFile, title, author, description, category)
func (h *EbookHandler) Add(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "expected a multipart/form-data body")
	}
	value := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	by, _ := c.Locals("admin").(string)

	e, err := h.Catalog.AddEbook(services.EbookInput{
		Title:       value("title"),
		Author:      value("author"),
		Description: value("description"),
		Category:    value("category"),
		UploadedBy:  by,
	}, form.File)
	if err != nil {
		return fail(c, "ebooks.add", "Ebook", err)
	}
	applog.Audit(c, "ebooks.add", map[string]any{"ebook_id": e.ID, "title": e.Title, "size": e.FileSize})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ebook added successfully", "ebook": e})
}

// DELETE /ebooks/:id
func (h *EbookHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.EbookID(c.Params("id"))
	if !ok {
		return fail(c, "ebooks.delete", "Ebook", services.ErrNotFound)
	}
	if err := h.Catalog.DeleteEbook(id); err != nil {
		return fail(c, "ebooks.delete", "Ebook", err)
	}
	applog.Audit(c, "ebooks.delete", map[string]any{"ebook_id": id})
	return c.JSON(fiber.Map{"message": "Ebook deleted successfully"})
}
