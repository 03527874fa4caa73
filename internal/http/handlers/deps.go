package handlers

import (
	"bookstore/internal/config"
	"bookstore/internal/repos"
	"bookstore/internal/services"
	"bookstore/internal/storage"
	"bookstore/internal/validate"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService

	AdminHandler *AdminHandler
	BookHandler  *BookHandler
	EbookHandler *EbookHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	bookRepo := repos.NewBookRepo(db)
	ebookRepo := repos.NewEbookRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(
		bookRepo,
		ebookRepo,
		storage.New(cfg.UploadDir),
		validate.NewUpload(cfg.MaxUploadBytes()),
	)

	return &Deps{
		Auth:         authSvc,
		Catalog:      catalogSvc,
		AdminHandler: &AdminHandler{Auth: authSvc, Catalog: catalogSvc},
		BookHandler:  &BookHandler{Catalog: catalogSvc},
		EbookHandler: &EbookHandler{Catalog: catalogSvc},
	}
}
