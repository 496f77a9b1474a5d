// Package memory implementa el catálogo SPU/SKU en memoria del proceso.
//
// Es el almacenamiento por defecto: mapas id→SPU e id→SKU más el índice
// SPU→SKUs (vista materializada del campo SPUID de cada SKU). Todas las
// mutaciones toman el mismo lock, así que asignación + inserción + append al
// índice son atómicas por llamada.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo guarda SPU y SKU en mapas protegidos por un RWMutex.
type CatalogRepo struct {
	mu       sync.RWMutex
	spus     map[string]*entity.ProductSPU
	skus     map[string]*entity.ProductSKU
	index    map[string][]string // spuID -> ids de SKU en orden de creación
	spuOrder []string
}

// NewCatalogRepository construye un catálogo vacío.
func NewCatalogRepository() *CatalogRepo {
	return &CatalogRepo{
		spus:  make(map[string]*entity.ProductSPU),
		skus:  make(map[string]*entity.ProductSKU),
		index: make(map[string][]string),
	}
}

// CreateSPU registra el SPU e inicializa su lista de SKU vacía.
func (r *CatalogRepo) CreateSPU(spu *entity.ProductSPU) error {
	if spu == nil || spu.ID == "" {
		return fmt.Errorf("%w: SPU sin id", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spus[spu.ID]; ok {
		return domain.ErrDuplicate
	}
	r.insertSPU(spu)
	return nil
}

// CreateSKU registra el SKU y lo agrega al índice de su SPU.
// No verifica que el SPU exista: esa regla la aplica el servicio según su modo.
func (r *CatalogRepo) CreateSKU(sku *entity.ProductSKU) error {
	if sku == nil || sku.ID == "" {
		return fmt.Errorf("%w: SKU sin id", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.skus[sku.ID]; ok {
		return domain.ErrDuplicate
	}
	r.insertSKU(sku)
	return nil
}

// GetSPU obtiene un SPU por ID. (nil, nil) si no existe.
func (r *CatalogRepo) GetSPU(id string) (*entity.ProductSPU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spu, ok := r.spus[id]
	if !ok {
		return nil, nil
	}
	return cloneSPU(spu), nil
}

// GetSKU obtiene un SKU por ID. (nil, nil) si no existe.
func (r *CatalogRepo) GetSKU(id string) (*entity.ProductSKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sku, ok := r.skus[id]
	if !ok {
		return nil, nil
	}
	return cloneSKU(sku), nil
}

// ListSKUsBySPU devuelve los SKU del SPU en orden de creación.
func (r *CatalogRepo) ListSKUsBySPU(spuID string) ([]*entity.ProductSKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.index[spuID]
	list := make([]*entity.ProductSKU, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneSKU(r.skus[id]))
	}
	return list, nil
}

// ListSPUs devuelve los SPU en orden de creación, filtrando por tenant si se indica.
func (r *CatalogRepo) ListSPUs(tenantID string) ([]*entity.ProductSPU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.ProductSPU, 0, len(r.spuOrder))
	for _, id := range r.spuOrder {
		spu := r.spus[id]
		if tenantID != "" && spu.TenantID != tenantID {
			continue
		}
		list = append(list, cloneSPU(spu))
	}
	return list, nil
}

// Run ejecuta fn contra un repositorio que acumula las escrituras y solo las
// publica en el catálogo si fn termina sin error.
func (r *CatalogRepo) Run(ctx context.Context, fn func(repo repository.CatalogRepository) error) error {
	tx := &stagedRepo{base: r}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.commit(tx)
}

// commit aplica lo pendiente de tx bajo un solo lock. Valida todo antes de escribir.
func (r *CatalogRepo) commit(tx *stagedRepo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spu := range tx.spus {
		if _, ok := r.spus[spu.ID]; ok {
			return domain.ErrDuplicate
		}
	}
	for _, sku := range tx.skus {
		if _, ok := r.skus[sku.ID]; ok {
			return domain.ErrDuplicate
		}
	}
	for _, spu := range tx.spus {
		r.insertSPU(spu)
	}
	for _, sku := range tx.skus {
		r.insertSKU(sku)
	}
	return nil
}

// insertSPU y insertSKU asumen el lock de escritura tomado.
func (r *CatalogRepo) insertSPU(spu *entity.ProductSPU) {
	r.spus[spu.ID] = cloneSPU(spu)
	r.spuOrder = append(r.spuOrder, spu.ID)
	if _, ok := r.index[spu.ID]; !ok {
		r.index[spu.ID] = []string{}
	}
}

func (r *CatalogRepo) insertSKU(sku *entity.ProductSKU) {
	r.skus[sku.ID] = cloneSKU(sku)
	r.index[sku.SPUID] = append(r.index[sku.SPUID], sku.ID)
}

func cloneSPU(spu *entity.ProductSPU) *entity.ProductSPU {
	c := *spu
	if spu.Attrs != nil {
		c.Attrs = make(map[string]interface{}, len(spu.Attrs))
		for k, v := range spu.Attrs {
			c.Attrs[k] = v
		}
	}
	return &c
}

func cloneSKU(sku *entity.ProductSKU) *entity.ProductSKU {
	c := *sku
	if sku.Cost != nil {
		cost := *sku.Cost
		c.Cost = &cost
	}
	return &c
}
