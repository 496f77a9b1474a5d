package catalog

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta fn con un repositorio atado a una transacción: si fn devuelve
// error no queda nada persistido. Lo implementan memory.CatalogRepo y postgres.TxRunner.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.CatalogRepository) error) error
}

// PriceListGenerator genera la lista de precios imprimible del catálogo.
type PriceListGenerator interface {
	GeneratePriceList(ctx context.Context, title string, products []dto.ProductResponse) ([]byte, error)
}
