package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bookstore/internal/config"
	applog "bookstore/internal/log"
	"bookstore/internal/storage"
)

// AppOptions tunes the parts of the app that tests need to tighten or relax.
type AppOptions struct {
	// RateMax is requests per minute per IP for the API; 0 means 120.
	RateMax int
	// LoginMax is login attempts per 10 minutes per IP; 0 means 5.
	LoginMax int
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, deps *Deps, opts AppOptions) *fiber.App {
	if opts.RateMax == 0 {
		opts.RateMax = 120
	}
	if opts.LoginMax == 0 {
		opts.LoginMax = 5
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimit(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			applog.Error(c, "server.error", err, nil)
			return c.Status(code).JSON(fiber.Map{"message": "Something went wrong. Please try again."})
		},
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	origins := strings.Join(cfg.CORSOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowCredentials: origins != "*" && origins != "",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        opts.RateMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), storage.URLPrefix+"/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Uploaded files ----------
	uploadDir := cfg.UploadDir
	if abs, err := filepath.Abs(uploadDir); err == nil {
		uploadDir = abs
	}
	app.Get(storage.URLPrefix+"/*", func(c *fiber.Ctx) error {
		p := c.Params("*")
		raw := strings.ToLower(p)
		if strings.Contains(raw, "..") || strings.Contains(raw, "%2e") || strings.Contains(raw, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": p})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(p)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": p})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadDir, clean), true)
	})

	// ---------- Routes ----------
	admin := app.Group("/admin")
	admin.Post("/login", limiter.New(limiter.Config{
		Max:        opts.LoginMax,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), deps.AdminHandler.Login)

	gate := RequireAdmin(deps.Auth)
	admin.Get("/books", gate, deps.AdminHandler.ListBooks)
	admin.Post("/books", gate, deps.AdminHandler.AddBook)
	admin.Delete("/books/:id", gate, deps.AdminHandler.DeleteBook)

	app.Get("/book", deps.BookHandler.List)

	ebooks := app.Group("/ebooks")
	ebooks.Get("/", deps.EbookHandler.List)
	ebooks.Get("/:id", deps.EbookHandler.Get)
	ebooks.Post("/", gate, deps.EbookHandler.Add)
	ebooks.Delete("/:id", gate, deps.EbookHandler.Delete)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Server is running"})
	})
	return app
}
