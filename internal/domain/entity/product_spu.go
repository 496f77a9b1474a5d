package entity

import "time"

// ProductSPU representa un producto (Standard Product Unit) independiente de sus variantes.
// ID lo asigna el catálogo al crear y nunca cambia; SPUCode es el identificador de negocio
// que envía el cliente y no se garantiza único.
type ProductSPU struct {
	ID         string
	TenantID   string
	SPUCode    string
	Name       string
	CategoryID string                 // vacío si no tiene categoría
	Attrs      map[string]interface{} // atributos que definen variantes (color, talla...)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
