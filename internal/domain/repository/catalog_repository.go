package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// CatalogRepository define el puerto de persistencia del catálogo SPU/SKU (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type CatalogRepository interface {
	CreateSPU(spu *entity.ProductSPU) error
	CreateSKU(sku *entity.ProductSKU) error
	GetSPU(id string) (*entity.ProductSPU, error)
	GetSKU(id string) (*entity.ProductSKU, error)
	// ListSKUsBySPU devuelve los SKU del SPU en orden de creación; vacío si no hay.
	ListSKUsBySPU(spuID string) ([]*entity.ProductSKU, error)
	// ListSPUs devuelve los SPU en orden de creación. tenantID vacío = todos.
	ListSPUs(tenantID string) ([]*entity.ProductSPU, error)
}
