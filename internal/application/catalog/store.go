// Package catalog contiene el servicio del catálogo SPU/SKU (asignación de
// identidad, validación e integridad referencial) y el importador masivo.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ReferenceMode indica si CreateSKU exige que el SPU referenciado exista.
type ReferenceMode string

const (
	// ReferencesStrict rechaza SKU cuyo SPU no existe (fachada).
	ReferencesStrict ReferenceMode = "strict"
	// ReferencesPermissive acepta SKU huérfanos (importador).
	ReferencesPermissive ReferenceMode = "permissive"
)

// ParseReferenceMode interpreta el valor de configuración. Vacío = strict.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch ReferenceMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReferencesStrict:
		return ReferencesStrict, nil
	case ReferencesPermissive:
		return ReferencesPermissive, nil
	default:
		return "", fmt.Errorf("modo de referencias desconocido: %q", s)
	}
}

// Store es la única autoridad sobre la identidad de SPU y SKU. Asigna ids UUID v4,
// sella fechas y delega el almacenamiento (mapas + índice) al repositorio.
type Store struct {
	repo  repository.CatalogRepository
	tx    TxRunner
	mode  ReferenceMode
	now   func() time.Time
	newID func() string
}

// NewStore construye el servicio. tx puede ser nil: InTx corre entonces sin atomicidad.
func NewStore(repo repository.CatalogRepository, tx TxRunner, mode ReferenceMode) *Store {
	if mode == "" {
		mode = ReferencesStrict
	}
	return &Store{
		repo:  repo,
		tx:    tx,
		mode:  mode,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// WithMode devuelve una copia del servicio sobre el mismo repositorio con otro modo.
func (s *Store) WithMode(mode ReferenceMode) *Store {
	c := *s
	c.mode = mode
	return &c
}

// Mode devuelve el modo de referencias activo.
func (s *Store) Mode() ReferenceMode { return s.mode }

// CreateSPU registra un SPU nuevo. Name es obligatorio.
func (s *Store) CreateSPU(in dto.CreateSPURequest) (*entity.ProductSPU, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	now := s.now()
	spu := &entity.ProductSPU{
		ID:         s.newID(),
		TenantID:   in.TenantID,
		SPUCode:    in.SPUCode,
		Name:       name,
		CategoryID: in.CategoryID,
		Attrs:      in.Attrs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateSPU(spu); err != nil {
		return nil, err
	}
	return spu, nil
}

// CreateSKU registra un SKU y lo agrega al índice de su SPU.
// En modo strict falla con domain.ErrSPUNotFound si el SPU no existe o, cuando
// in.TenantID viene informado, si pertenece a otro tenant.
func (s *Store) CreateSKU(in dto.CreateSKURequest) (*entity.ProductSKU, error) {
	if in.SPUID == "" {
		return nil, fmt.Errorf("%w: spu_id es requerido", domain.ErrInvalidInput)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price es requerido", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Cost != nil && in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: cost no puede ser negativo", domain.ErrInvalidInput)
	}
	// Sin operaciones de borrado, un SPU visto aquí sigue existiendo al insertar.
	if s.mode == ReferencesStrict {
		spu, err := s.repo.GetSPU(in.SPUID)
		if err != nil {
			return nil, err
		}
		if spu == nil || (in.TenantID != "" && spu.TenantID != in.TenantID) {
			return nil, domain.ErrSPUNotFound
		}
	}
	sku := &entity.ProductSKU{
		ID:         s.newID(),
		SPUID:      in.SPUID,
		Barcode:    strings.TrimSpace(in.Barcode),
		Unit:       in.Unit,
		Price:      *in.Price,
		Cost:       in.Cost,
		Weightable: in.Weightable,
		CreatedAt:  s.now(),
	}
	if err := s.repo.CreateSKU(sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// GetSPU obtiene un SPU por ID. (nil, nil) si no existe.
func (s *Store) GetSPU(id string) (*entity.ProductSPU, error) {
	return s.repo.GetSPU(id)
}

// GetSKU obtiene un SKU por ID. (nil, nil) si no existe.
func (s *Store) GetSKU(id string) (*entity.ProductSKU, error) {
	return s.repo.GetSKU(id)
}

// GetSKUsBySPU devuelve los SKU del SPU en orden de creación; vacío si no hay.
func (s *Store) GetSKUsBySPU(spuID string) ([]*entity.ProductSKU, error) {
	list, err := s.repo.ListSKUsBySPU(spuID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.ProductSKU{}
	}
	return list, nil
}

// ListSPUs devuelve los SPU en orden de creación. tenantID vacío = todos.
func (s *Store) ListSPUs(tenantID string) ([]*entity.ProductSPU, error) {
	return s.repo.ListSPUs(tenantID)
}

// InTx ejecuta fn con una copia del servicio atada a una transacción.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx == nil {
		return fn(s)
	}
	return s.tx.Run(ctx, func(repo repository.CatalogRepository) error {
		c := *s
		c.repo = repo
		c.tx = nil
		return fn(&c)
	})
}
