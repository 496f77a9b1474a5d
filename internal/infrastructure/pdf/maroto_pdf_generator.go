// Package pdf implementa la lista de precios imprimible del catálogo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha + N° productos   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Código de barras | Unidad | Precio        │
//	│    SPU (fila en negrita)                                     │
//	│      SKU  |  ║║║║║ 7701234  |  kg  |  $12.500                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

var _ catalog.PriceListGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa catalog.PriceListGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GeneratePriceList genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePriceList(
	_ context.Context,
	title string,
	products []dto.ProductResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(nonEmpty(title, "Lista de precios"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(nonEmpty(title, "Lista de precios"), g.now(), len(products)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, p := range products {
		m.AddRows(productRows(p)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar lista de precios: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha + total de productos (der).
func headerRow(title string, at time.Time, count int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+at.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d productos", count), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Código de barras", 4, align.Center),
		h("Unidad", 1, align.Center),
		h("Precio", 3, align.Right),
	)
}

// productRows: una fila con el nombre del SPU y una por cada SKU.
func productRows(p dto.ProductResponse) []core.Row {
	rows := make([]core.Row, 0, len(p.SKUs)+1)
	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(p.SPU.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1}),
	)))
	for _, sku := range p.SKUs {
		barcodeCol := col.New(4).Add(text.New("-", props.Text{Size: 8, Align: align.Center, Top: 3}))
		height := 10.0
		if sku.Barcode != "" {
			barcodeCol = col.New(4).Add(code.NewBar(sku.Barcode, props.Barcode{Percent: 80, Center: true}))
			height = 14
		}
		unit := nonEmpty(sku.Unit, "und")
		if sku.Weightable {
			unit += " (peso)"
		}
		rows = append(rows, row.New(height).Add(
			col.New(4).Add(text.New(
				nonEmpty(sku.Barcode, sku.ID[:min(8, len(sku.ID))]),
				props.Text{Size: 7, Top: 3, Left: 4, Color: colorGray},
			)),
			barcodeCol,
			col.New(1).Add(text.New(unit, props.Text{Size: 8, Align: align.Center, Top: 3})),
			col.New(3).Add(text.New(formatPrice(sku.Price), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3, Right: 1,
			})),
		))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Precios sujetos a cambio sin previo aviso.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatPrice: enteros con puntos de miles ("$12.500"); con centavos, coma decimal ("$12.500,50").
func formatPrice(d decimal.Decimal) string {
	d = d.Round(2)
	whole := d.Truncate(0)
	s := "$" + formatMoney(whole.StringFixed(0))
	if d.Equal(whole) {
		return s
	}
	cents := d.Sub(whole).Shift(2).Round(0).IntPart()
	return fmt.Sprintf("%s,%02d", s, cents)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
