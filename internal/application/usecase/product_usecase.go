package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ProductUseCase fachada del catálogo para la UI y la API: listado, alta compuesta
// SPU + primer SKU y accesos directos al servicio. Usa el servicio en modo strict.
type ProductUseCase struct {
	store     *catalog.Store
	priceList catalog.PriceListGenerator
}

// NewProductUseCase construye el caso de uso. priceList puede ser nil si no se exporta PDF.
func NewProductUseCase(store *catalog.Store, priceList catalog.PriceListGenerator) *ProductUseCase {
	return &ProductUseCase{store: store, priceList: priceList}
}

// GetProducts lista los SPU del tenant (todos si tenantID es vacío) con sus SKU,
// en orden de creación.
func (uc *ProductUseCase) GetProducts(tenantID string) ([]dto.ProductResponse, error) {
	spus, err := uc.store.ListSPUs(tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(spus))
	for _, spu := range spus {
		skus, err := uc.store.GetSKUsBySPU(spu.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.ToProductResponse(spu, skus))
	}
	return items, nil
}

// CreateProduct crea un SPU y exactamente un SKU que lo referencia, en una transacción:
// si algo falla no queda ninguno de los dos.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price es requerido", domain.ErrInvalidInput)
	}
	var out dto.ProductResponse
	err := uc.store.InTx(ctx, func(tx *catalog.Store) error {
		spu, err := tx.CreateSPU(dto.CreateSPURequest{
			TenantID:   in.TenantID,
			SPUCode:    in.SPUCode,
			Name:       in.Name,
			CategoryID: in.CategoryID,
			Attrs:      in.Attrs,
		})
		if err != nil {
			return err
		}
		sku, err := tx.CreateSKU(dto.CreateSKURequest{
			TenantID:   in.TenantID,
			SPUID:      spu.ID,
			Barcode:    in.Barcode,
			Unit:       in.Unit,
			Price:      in.Price,
			Cost:       in.Cost,
			Weightable: in.Weightable,
		})
		if err != nil {
			return err
		}
		out = dto.ToProductResponse(spu, []*entity.ProductSKU{sku})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSPU alta directa de un SPU.
func (uc *ProductUseCase) CreateSPU(in dto.CreateSPURequest) (*dto.SPUResponse, error) {
	spu, err := uc.store.CreateSPU(in)
	if err != nil {
		return nil, err
	}
	out := dto.ToSPUResponse(spu)
	return &out, nil
}

// CreateSKU alta directa de un SKU sobre un SPU existente.
func (uc *ProductUseCase) CreateSKU(in dto.CreateSKURequest) (*dto.SKUResponse, error) {
	sku, err := uc.store.CreateSKU(in)
	if err != nil {
		return nil, err
	}
	out := dto.ToSKUResponse(sku)
	return &out, nil
}

// GetSPU obtiene un SPU por ID. (nil, nil) si no existe.
func (uc *ProductUseCase) GetSPU(id string) (*dto.SPUResponse, error) {
	spu, err := uc.store.GetSPU(id)
	if err != nil || spu == nil {
		return nil, err
	}
	out := dto.ToSPUResponse(spu)
	return &out, nil
}

// GetSKU obtiene un SKU por ID. (nil, nil) si no existe.
func (uc *ProductUseCase) GetSKU(id string) (*dto.SKUResponse, error) {
	sku, err := uc.store.GetSKU(id)
	if err != nil || sku == nil {
		return nil, err
	}
	out := dto.ToSKUResponse(sku)
	return &out, nil
}

// GetSKUsBySPU lista los SKU de un SPU; vacío si el SPU no tiene o no existe.
func (uc *ProductUseCase) GetSKUsBySPU(spuID string) ([]dto.SKUResponse, error) {
	skus, err := uc.store.GetSKUsBySPU(spuID)
	if err != nil {
		return nil, err
	}
	return dto.ToSKUResponses(skus), nil
}

// PriceListPDF genera la lista de precios del tenant y el nombre de archivo sugerido.
func (uc *ProductUseCase) PriceListPDF(ctx context.Context, tenantID, title string) ([]byte, string, error) {
	if uc.priceList == nil {
		return nil, "", fmt.Errorf("lista de precios: generador no configurado")
	}
	products, err := uc.GetProducts(tenantID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.priceList.GeneratePriceList(ctx, title, products)
	if err != nil {
		return nil, "", err
	}
	return pdf, "lista-precios.pdf", nil
}
