package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/catalogo-api/docs"
	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// @title                       Catálogo API
// @version                     1.0
// @description                 Catálogo de productos SPU/SKU por tenant con importación masiva desde CSV.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Catalog.Storage).
		Msg("iniciando aplicación")

	facadeMode, err := catalog.ParseReferenceMode(cfg.Catalog.FacadeReferences)
	if err != nil {
		log.Fatal().Err(err).Msg("CATALOG_FACADE_REFERENCES")
	}
	importMode, err := catalog.ParseReferenceMode(cfg.Catalog.ImportReferences)
	if err != nil {
		log.Fatal().Err(err).Msg("CATALOG_IMPORT_REFERENCES")
	}

	ctx := context.Background()

	// Almacenamiento: memoria (por defecto) o PostgreSQL.
	var (
		catalogRepo repository.CatalogRepository
		txRunner    catalog.TxRunner
	)
	if cfg.Catalog.UsesPostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		catalogRepo = postgres.NewCatalogRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	} else {
		memRepo := memory.NewCatalogRepository()
		catalogRepo = memRepo
		txRunner = memRepo
	}

	store := catalog.NewStore(catalogRepo, txRunner, facadeMode)

	var importerOpts []catalog.ImporterOption
	if cfg.Catalog.ImportColumns != "" {
		cols, err := catalog.ParseColumnOrder(cfg.Catalog.ImportColumns)
		if err != nil {
			log.Fatal().Err(err).Msg("CATALOG_IMPORT_COLUMNS")
		}
		importerOpts = append(importerOpts, catalog.WithColumnMapping(cols))
	}
	importer := catalog.NewImporter(store.WithMode(importMode), log.Component("importer"), importerOpts...)

	// PDF: lista de precios con códigos de barras
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	productUC := usecase.NewProductUseCase(store, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Catalog.ImportMaxBytes + 1<<20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		Importer:       importer,
		ImportMaxBytes: cfg.Catalog.ImportMaxBytes,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
