package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSKU representa una variante vendible (Stock Keeping Unit) de un SPU.
// SPUID apunta al ID asignado del SPU dueño y no cambia durante la vida del SKU.
type ProductSKU struct {
	ID         string
	SPUID      string
	Barcode    string // no se garantiza único
	Unit       string // unidad de venta: und, kg, ...
	Price      decimal.Decimal
	Cost       *decimal.Decimal // nil si no se informó
	Weightable bool             // se vende por peso variable
	CreatedAt  time.Time
}
