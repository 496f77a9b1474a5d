package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CreateSPURequest entrada para crear un SPU. SPUCode es el código de negocio ("spu_id").
type CreateSPURequest struct {
	TenantID   string                 `json:"tenant_id"`
	SPUCode    string                 `json:"spu_id"`
	Name       string                 `json:"name" validate:"required,min=1,max=200"`
	CategoryID string                 `json:"category_id"`
	Attrs      map[string]interface{} `json:"attrs"`
}

// CreateSKURequest entrada para crear un SKU. SPUID es el id asignado del SPU dueño.
// TenantID es el tenant de quien llama (no viaja en el JSON); vacío = no se verifica.
type CreateSKURequest struct {
	TenantID   string           `json:"-"`
	SPUID      string           `json:"spu_id" validate:"required"`
	Barcode    string           `json:"barcode"`
	Unit       string           `json:"unit"`
	Price      *decimal.Decimal `json:"price" swaggertype:"string" validate:"required"`
	Cost       *decimal.Decimal `json:"cost" swaggertype:"string"`
	Weightable bool             `json:"weightable"`
}

// CreateProductRequest entrada compuesta: un SPU con su primer SKU.
type CreateProductRequest struct {
	TenantID   string                 `json:"tenant_id"`
	SPUCode    string                 `json:"spu_id"`
	Name       string                 `json:"name" validate:"required,min=1,max=200"`
	CategoryID string                 `json:"category_id"`
	Attrs      map[string]interface{} `json:"attrs"`
	Barcode    string                 `json:"barcode"`
	Unit       string                 `json:"unit"`
	Price      *decimal.Decimal       `json:"price" swaggertype:"string" validate:"required"`
	Cost       *decimal.Decimal       `json:"cost" swaggertype:"string"`
	Weightable bool                   `json:"weightable"`
}

// SPUResponse salida de un SPU.
type SPUResponse struct {
	ID         string                 `json:"id"`
	TenantID   string                 `json:"tenant_id"`
	SPUCode    string                 `json:"spu_id"`
	Name       string                 `json:"name"`
	CategoryID string                 `json:"category_id,omitempty"`
	Attrs      map[string]interface{} `json:"attrs,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// SKUResponse salida de un SKU.
type SKUResponse struct {
	ID         string           `json:"id"`
	SPUID      string           `json:"spu_id"`
	Barcode    string           `json:"barcode,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	Price      decimal.Decimal  `json:"price" swaggertype:"string"`
	Cost       *decimal.Decimal `json:"cost,omitempty" swaggertype:"string"`
	Weightable bool             `json:"weightable"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ProductResponse un SPU con sus SKU en orden de creación.
type ProductResponse struct {
	SPU  SPUResponse   `json:"spu"`
	SKUs []SKUResponse `json:"skus"`
}

// ToSPUResponse convierte la entidad a DTO.
func ToSPUResponse(spu *entity.ProductSPU) SPUResponse {
	return SPUResponse{
		ID:         spu.ID,
		TenantID:   spu.TenantID,
		SPUCode:    spu.SPUCode,
		Name:       spu.Name,
		CategoryID: spu.CategoryID,
		Attrs:      spu.Attrs,
		CreatedAt:  spu.CreatedAt,
		UpdatedAt:  spu.UpdatedAt,
	}
}

// ToSKUResponse convierte la entidad a DTO.
func ToSKUResponse(sku *entity.ProductSKU) SKUResponse {
	return SKUResponse{
		ID:         sku.ID,
		SPUID:      sku.SPUID,
		Barcode:    sku.Barcode,
		Unit:       sku.Unit,
		Price:      sku.Price,
		Cost:       sku.Cost,
		Weightable: sku.Weightable,
		CreatedAt:  sku.CreatedAt,
	}
}

// ToSKUResponses convierte una lista; nunca devuelve nil.
func ToSKUResponses(list []*entity.ProductSKU) []SKUResponse {
	out := make([]SKUResponse, 0, len(list))
	for _, sku := range list {
		out = append(out, ToSKUResponse(sku))
	}
	return out
}

// ToProductResponse arma el par {spu, skus}.
func ToProductResponse(spu *entity.ProductSPU, skus []*entity.ProductSKU) ProductResponse {
	return ProductResponse{SPU: ToSPUResponse(spu), SKUs: ToSKUResponses(skus)}
}
