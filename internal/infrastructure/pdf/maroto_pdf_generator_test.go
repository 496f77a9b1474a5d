package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "0",
		"999":     "999",
		"1000":    "1.000",
		"25000":   "25.000",
		"1000000": "1.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"12500":     "$12.500",
		"12500.5":   "$12.500,50",
		"0.05":      "$0,05",
		"99.999":    "$100",
		"1234567.1": "$1.234.567,10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatPrice(decimal.RequireFromString(in)), in)
	}
}

func TestGeneratePriceList(t *testing.T) {
	products := []dto.ProductResponse{
		{
			SPU: dto.SPUResponse{ID: "spu-1", Name: "Gaseosa"},
			SKUs: []dto.SKUResponse{
				{ID: "sku-1", SPUID: "spu-1", Barcode: "7701234567890", Unit: "und", Price: decimal.NewFromInt(2500)},
				{ID: "sku-2", SPUID: "spu-1", Price: decimal.RequireFromString("4800.50"), Weightable: true},
			},
		},
		{SPU: dto.SPUResponse{ID: "spu-2", Name: "Sin variantes"}, SKUs: []dto.SKUResponse{}},
	}

	out, err := NewMarotoPDFGenerator().GeneratePriceList(context.Background(), "Lista junio", products)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGeneratePriceList_SinProductos(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GeneratePriceList(context.Background(), "", nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
