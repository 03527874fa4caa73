package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	applog "bookstore/internal/log"
	"bookstore/internal/services"
	"bookstore/internal/validate"
)

type AdminHandler struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
}

type loginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var in loginForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	name, ok := validate.Username(in.Username)
	if !ok || !validate.Password(in.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": in.Username, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}
	tok, _, err := h.Auth.Login(name, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": name})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": name})
	return c.JSON(fiber.Map{"token": tok, "message": "Admin login successful"})
}

// priceField accepts a JSON number or a JSON string.
type priceField string

func (p *priceField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceField(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	*p = priceField(b)
	return nil
}

type bookForm struct {
	Name        string     `json:"name" form:"name"`
	Title       string     `json:"title" form:"title"`
	Author      string     `json:"author" form:"author"`
	Price       priceField `json:"price" form:"price"`
	Category    string     `json:"category" form:"category"`
	Description string     `json:"description" form:"description"`
	Image       string     `json:"image" form:"image"`
	ISBN        string     `json:"isbn" form:"isbn"`
}

// GET /admin/books
func (h *AdminHandler) ListBooks(c *fiber.Ctx) error {
	books, err := h.Catalog.ListBooks()
	if err != nil {
		return fail(c, "admin.books.list", "Book", err)
	}
	return c.JSON(books)
}

// POST /admin/books
func (h *AdminHandler) AddBook(c *fiber.Ctx) error {
	var in bookForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Catalog.AddBook(services.BookInput{
		Name:        in.Name,
		Title:       in.Title,
		Author:      in.Author,
		Price:       string(in.Price),
		Category:    in.Category,
		Description: in.Description,
		Image:       in.Image,
		ISBN:        in.ISBN,
	})
	if err != nil {
		return fail(c, "admin.books.add", "Book", err)
	}
	applog.Audit(c, "admin.books.add", map[string]any{"book_id": b.ID, "name": b.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Book added successfully", "book": b})
}

// DELETE /admin/books/:id
func (h *AdminHandler) DeleteBook(c *fiber.Ctx) error {
	id, ok := validate.BookID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Book not found"})
	}
	if err := h.Catalog.DeleteBook(id); err != nil {
		return fail(c, "admin.books.delete", "Book", err)
	}
	applog.Audit(c, "admin.books.delete", map[string]any{"book_id": id})
	return c.JSON(fiber.Map{"message": "Book deleted successfully"})
}
