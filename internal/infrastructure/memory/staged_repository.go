package memory

import (
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*stagedRepo)(nil)

// stagedRepo es la "transacción" en memoria: las escrituras quedan pendientes
// y las lecturas ven lo pendiente encima del catálogo base.
type stagedRepo struct {
	base *CatalogRepo
	spus []*entity.ProductSPU
	skus []*entity.ProductSKU
}

func (t *stagedRepo) CreateSPU(spu *entity.ProductSPU) error {
	if spu == nil || spu.ID == "" {
		return fmt.Errorf("%w: SPU sin id", domain.ErrInvalidInput)
	}
	if existing, _ := t.GetSPU(spu.ID); existing != nil {
		return domain.ErrDuplicate
	}
	t.spus = append(t.spus, cloneSPU(spu))
	return nil
}

func (t *stagedRepo) CreateSKU(sku *entity.ProductSKU) error {
	if sku == nil || sku.ID == "" {
		return fmt.Errorf("%w: SKU sin id", domain.ErrInvalidInput)
	}
	if existing, _ := t.GetSKU(sku.ID); existing != nil {
		return domain.ErrDuplicate
	}
	t.skus = append(t.skus, cloneSKU(sku))
	return nil
}

func (t *stagedRepo) GetSPU(id string) (*entity.ProductSPU, error) {
	for _, spu := range t.spus {
		if spu.ID == id {
			return cloneSPU(spu), nil
		}
	}
	return t.base.GetSPU(id)
}

func (t *stagedRepo) GetSKU(id string) (*entity.ProductSKU, error) {
	for _, sku := range t.skus {
		if sku.ID == id {
			return cloneSKU(sku), nil
		}
	}
	return t.base.GetSKU(id)
}

func (t *stagedRepo) ListSKUsBySPU(spuID string) ([]*entity.ProductSKU, error) {
	list, err := t.base.ListSKUsBySPU(spuID)
	if err != nil {
		return nil, err
	}
	for _, sku := range t.skus {
		if sku.SPUID == spuID {
			list = append(list, cloneSKU(sku))
		}
	}
	return list, nil
}

func (t *stagedRepo) ListSPUs(tenantID string) ([]*entity.ProductSPU, error) {
	list, err := t.base.ListSPUs(tenantID)
	if err != nil {
		return nil, err
	}
	for _, spu := range t.spus {
		if tenantID == "" || spu.TenantID == tenantID {
			list = append(list, cloneSPU(spu))
		}
	}
	return list, nil
}
