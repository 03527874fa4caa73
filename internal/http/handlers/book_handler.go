package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookstore/internal/services"
)

type BookHandler struct {
	Catalog *services.CatalogService
}

// GET /book
func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.Catalog.ListBooks()
	if err != nil {
		return fail(c, "books.list", "Book", err)
	}
	return c.JSON(books)
}
