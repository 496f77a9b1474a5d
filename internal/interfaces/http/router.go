package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// Roles con permiso de escritura sobre el catálogo.
var writerRoles = []string{"admin", "catalogo"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	Importer       *catalog.Importer
	ImportMaxBytes int
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(writerRoles...)

	productHandler := NewProductHandler(deps.ProductUC)
	importHandler := NewImportHandler(deps.Importer, deps.ImportMaxBytes)

	// Products: SPU + SKUs como una unidad
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", canWrite, productHandler.Create)
	products.Post("/import", canWrite, importHandler.Import)
	products.Get("/pricelist.pdf", productHandler.PriceList)

	// SPU
	spus := api.Group("/spus")
	spus.Post("/", canWrite, productHandler.CreateSPU)
	spus.Get("/:id", productHandler.GetSPU)
	spus.Get("/:id/skus", productHandler.ListSKUs)

	// SKU
	skus := api.Group("/skus")
	skus.Post("/", canWrite, productHandler.CreateSKU)
	skus.Get("/:id", productHandler.GetSKU)
}
