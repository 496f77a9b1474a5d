package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

func newImporter(opts ...catalog.ImporterOption) (*catalog.Importer, *catalog.Store) {
	store := newStore(catalog.ReferencesPermissive)
	return catalog.NewImporter(store, zerolog.Nop(), opts...), store
}

func TestImporter_DosFilasValidas(t *testing.T) {
	im, store := newImporter()

	res, err := im.ImportFromText(context.Background(), "t1",
		"name,price,barcode\nProduct A,100,12345\nProduct B,200,67890")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, res.Errors)

	spus, err := store.ListSPUs("t1")
	require.NoError(t, err)
	require.Len(t, spus, 2)
	assert.Equal(t, "Product A", spus[0].Name)
	assert.Equal(t, "Product B", spus[1].Name)
	assert.NotEqual(t, spus[0].SPUCode, spus[1].SPUCode, "cada fila genera su propio spu_id de negocio")

	for i, want := range []struct {
		price   string
		barcode string
	}{{"100", "12345"}, {"200", "67890"}} {
		skus, err := store.GetSKUsBySPU(spus[i].ID)
		require.NoError(t, err)
		require.Len(t, skus, 1)
		assert.True(t, decimal.RequireFromString(want.price).Equal(skus[0].Price))
		assert.Equal(t, want.barcode, skus[0].Barcode)
	}

	require.Len(t, res.Products, 2)
	assert.Equal(t, spus[0].ID, res.Products[0].SPU.ID)
}

func TestImporter_EntradaVacia(t *testing.T) {
	for _, raw := range []string{"", "name,price,barcode", "name,price,barcode\n", "name,price,barcode\n\n\n"} {
		im, store := newImporter()
		res, err := im.ImportFromText(context.Background(), "t1", raw)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Success, "entrada %q", raw)
		assert.Equal(t, 0, res.Failed, "entrada %q", raw)

		spus, err := store.ListSPUs("")
		require.NoError(t, err)
		assert.Empty(t, spus)
	}
}

// Una fila sin nombre no afecta a la fila válida.
func TestImporter_FilasIndependientes(t *testing.T) {
	im, store := newImporter()

	res, err := im.ImportFromText(context.Background(), "t1",
		"name,price,barcode\n,100,111\nProduct B,200,222")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "name", res.Errors[0].Column)
	assert.Equal(t, dto.ImportErrRequired, res.Errors[0].Code)

	spus, err := store.ListSPUs("")
	require.NoError(t, err)
	require.Len(t, spus, 1)
	assert.Equal(t, "Product B", spus[0].Name)
	skus, err := store.GetSKUsBySPU(spus[0].ID)
	require.NoError(t, err)
	assert.Len(t, skus, 1)
}

func TestImporter_PrecioInvalidoNoDejaSPU(t *testing.T) {
	cases := map[string]string{
		"no numérico": "Producto X,abc,1",
		"negativo":    "Producto X,-5,1",
		"vacío":       "Producto X,,1",
		"ausente":     "Producto X",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			im, store := newImporter()
			res, err := im.ImportFromText(context.Background(), "t1", "name,price,barcode\n"+row)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Success)
			assert.Equal(t, 1, res.Failed)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, "price", res.Errors[0].Column)

			spus, err := store.ListSPUs("")
			require.NoError(t, err)
			assert.Empty(t, spus, "una fila fallida no deja SPU parcial")
		})
	}
}

func TestImporter_PrecioDecimal(t *testing.T) {
	im, store := newImporter()
	res, err := im.ImportFromText(context.Background(), "t1", "name,price,barcode\nQueso,12500.50,")
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)

	skus, err := store.GetSKUsBySPU(res.Products[0].SPU.ID)
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.True(t, decimal.RequireFromString("12500.5").Equal(skus[0].Price))
	assert.Empty(t, skus[0].Barcode)
}

func TestImporter_CabeceraEnEspanolConCategoria(t *testing.T) {
	im, store := newImporter()
	raw := "Nombre;Categoría;Código de barras;Precio"
	raw = strings.ReplaceAll(raw, ";", ",") + "\nArroz 500g,granos,7701001,3200\n"

	res, err := im.ImportFromText(context.Background(), "t1", raw)
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)

	spu, err := store.GetSPU(res.Products[0].SPU.ID)
	require.NoError(t, err)
	require.NotNil(t, spu)
	assert.Equal(t, "Arroz 500g", spu.Name)
	assert.Equal(t, "granos", spu.CategoryID)
	assert.Equal(t, "7701001", res.Products[0].SKUs[0].Barcode)
	assert.True(t, decimal.NewFromInt(3200).Equal(res.Products[0].SKUs[0].Price))
}

func TestImporter_MapeoPorLlamada(t *testing.T) {
	im, _ := newImporter()
	cols, err := catalog.ParseColumnOrder("name,category,barcode,price")
	require.NoError(t, err)

	res, err := im.Import(context.Background(), "t1",
		strings.NewReader("a,b,c,d\nCamisa,ropa,999,45000"), &cols)
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)
	assert.Equal(t, "ropa", res.Products[0].SPU.CategoryID)
	assert.Equal(t, "999", res.Products[0].SKUs[0].Barcode)
}

func TestImporter_MapeoConfigurado(t *testing.T) {
	cols, err := catalog.ParseColumnOrder("barcode,price,name")
	require.NoError(t, err)
	im, _ := newImporter(catalog.WithColumnMapping(cols))

	// La cabecera nombra otro orden; manda el mapeo configurado.
	res, err := im.ImportFromText(context.Background(), "t1", "name,price,barcode\n555,900,Jabón")
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)
	assert.Equal(t, "Jabón", res.Products[0].SPU.Name)
	assert.Equal(t, "555", res.Products[0].SKUs[0].Barcode)
}

func TestImporter_ArchivoWindows1252(t *testing.T) {
	im, _ := newImporter()
	raw := []byte("nombre,precio\nCaf\xe9 molido,8000\n")

	res, err := im.Import(context.Background(), "t1", strings.NewReader(string(raw)), nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)
	assert.Equal(t, "Café molido", res.Products[0].SPU.Name)
}

func TestImporter_BOMyCRLF(t *testing.T) {
	im, _ := newImporter()
	res, err := im.ImportFromText(context.Background(), "t1", "\ufeffname,price,barcode\r\nLeche,4200,1\r\n")
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)
	assert.Equal(t, "Leche", res.Products[0].SPU.Name)
}

func TestImporter_FilaMalFormadaCuentaComoFallida(t *testing.T) {
	im, store := newImporter()
	res, err := im.ImportFromText(context.Background(), "t1",
		"name,price,barcode\nPro\"ducto,100,1\nBueno,200,2")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, dto.ImportErrParse, res.Errors[0].Code)

	spus, err := store.ListSPUs("")
	require.NoError(t, err)
	assert.Len(t, spus, 1)
}

// Una comilla sin cerrar no se extiende a las filas siguientes.
func TestImporter_ComillaSinCerrarSoloAfectaSuFila(t *testing.T) {
	im, store := newImporter()
	res, err := im.ImportFromText(context.Background(), "t1",
		"name,price,barcode\nA,100,1\n\"Broken,5,2\nB,200,3\nC,300,4")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, dto.ImportErrParse, res.Errors[0].Code)

	spus, err := store.ListSPUs("t1")
	require.NoError(t, err)
	require.Len(t, spus, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{spus[0].Name, spus[1].Name, spus[2].Name})
}

// El número de fila reportado cuenta también las líneas vacías.
func TestImporter_NumeroDeFilaConLineasVacias(t *testing.T) {
	im, _ := newImporter()
	res, err := im.ImportFromText(context.Background(), "t1", "name,price\n\nA,1\n\n,2\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 5, res.Errors[0].Row)
}

func TestImporter_ContextoCancelado(t *testing.T) {
	im, _ := newImporter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := im.ImportFromText(ctx, "t1", "name,price\nA,1\nB,2")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Success)
}

func TestImporter_TenantEnCadaSPU(t *testing.T) {
	im, store := newImporter()
	_, err := im.ImportFromText(context.Background(), "tienda-sur", "name,price\nA,1\nB,2")
	require.NoError(t, err)

	spus, err := store.ListSPUs("tienda-sur")
	require.NoError(t, err)
	assert.Len(t, spus, 2)
	other, err := store.ListSPUs("tienda-norte")
	require.NoError(t, err)
	assert.Empty(t, other)
}
