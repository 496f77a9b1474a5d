package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación del puerto CatalogRepository sobre PostgreSQL (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const spuColumns = `id, tenant_id, spu_code, name, category_id, attrs, created_at, updated_at`

const skuColumns = `id, spu_id, barcode, unit, price, cost, weightable, created_at`

// CreateSPU persiste un nuevo SPU.
func (r *CatalogRepo) CreateSPU(spu *entity.ProductSPU) error {
	var attrs []byte
	if spu.Attrs != nil {
		var err error
		if attrs, err = json.Marshal(spu.Attrs); err != nil {
			return fmt.Errorf("%w: attrs: %v", domain.ErrInvalidInput, err)
		}
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO product_spus (`+spuColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		spu.ID, spu.TenantID, spu.SPUCode, spu.Name, spu.CategoryID, attrs, spu.CreatedAt, spu.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert spu: %w", err)
	}
	return nil
}

// CreateSKU persiste un nuevo SKU. El índice por SPU es product_skus(spu_id, seq).
func (r *CatalogRepo) CreateSKU(sku *entity.ProductSKU) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO product_skus (`+skuColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sku.ID, sku.SPUID, sku.Barcode, sku.Unit, sku.Price, sku.Cost, sku.Weightable, sku.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sku: %w", err)
	}
	return nil
}

// GetSPU obtiene un SPU por ID. (nil, nil) si no existe.
func (r *CatalogRepo) GetSPU(id string) (*entity.ProductSPU, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+spuColumns+` FROM product_spus WHERE id = $1`, id)
	spu, err := scanSPU(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spu: %w", err)
	}
	return spu, nil
}

// GetSKU obtiene un SKU por ID. (nil, nil) si no existe.
func (r *CatalogRepo) GetSKU(id string) (*entity.ProductSKU, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+skuColumns+` FROM product_skus WHERE id = $1`, id)
	sku, err := scanSKU(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return sku, nil
}

// ListSKUsBySPU lista los SKU del SPU en orden de creación.
func (r *CatalogRepo) ListSKUsBySPU(spuID string) ([]*entity.ProductSKU, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+skuColumns+` FROM product_skus WHERE spu_id = $1 ORDER BY seq`, spuID)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	list := []*entity.ProductSKU{}
	for rows.Next() {
		sku, err := scanSKU(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		list = append(list, sku)
	}
	return list, rows.Err()
}

// ListSPUs lista los SPU en orden de creación; tenantID vacío = todos.
func (r *CatalogRepo) ListSPUs(tenantID string) ([]*entity.ProductSPU, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+spuColumns+` FROM product_spus WHERE $1 = '' OR tenant_id = $1 ORDER BY seq`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list spus: %w", err)
	}
	defer rows.Close()
	list := []*entity.ProductSPU{}
	for rows.Next() {
		spu, err := scanSPU(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spu: %w", err)
		}
		list = append(list, spu)
	}
	return list, rows.Err()
}

func scanSPU(row pgx.Row) (*entity.ProductSPU, error) {
	var spu entity.ProductSPU
	var attrs []byte
	if err := row.Scan(&spu.ID, &spu.TenantID, &spu.SPUCode, &spu.Name, &spu.CategoryID,
		&attrs, &spu.CreatedAt, &spu.UpdatedAt); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &spu.Attrs); err != nil {
			return nil, fmt.Errorf("attrs: %w", err)
		}
	}
	return &spu, nil
}

func scanSKU(row pgx.Row) (*entity.ProductSKU, error) {
	var sku entity.ProductSKU
	if err := row.Scan(&sku.ID, &sku.SPUID, &sku.Barcode, &sku.Unit, &sku.Price, &sku.Cost,
		&sku.Weightable, &sku.CreatedAt); err != nil {
		return nil, err
	}
	return &sku, nil
}
