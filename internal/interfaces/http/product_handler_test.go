package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

type stubPriceList struct{}

func (stubPriceList) GeneratePriceList(_ context.Context, _ string, _ []dto.ProductResponse) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

// buildCatalogApp arma la API completa sobre un catálogo en memoria.
func buildCatalogApp(importMaxBytes int) *fiber.App {
	repo := memory.NewCatalogRepository()
	store := catalog.NewStore(repo, repo, catalog.ReferencesStrict)
	importer := catalog.NewImporter(store.WithMode(catalog.ReferencesPermissive), zerolog.Nop())

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(store, stubPriceList{}),
		Importer:       importer,
		ImportMaxBytes: importMaxBytes,
		JWTSecret:      testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func postJSON(t *testing.T, app *fiber.App, path, auth string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return call(t, app, http.MethodPost, path, auth, fiber.MIMEApplicationJSON, bytes.NewReader(b))
}

func TestProducts_CrearYListar(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	admin := bearer(t, testTenantID, "admin")

	resp, raw := postJSON(t, app, "/api/products", admin, map[string]interface{}{
		"spu_id": "p1", "name": "New Product", "price": 150, "barcode": "789",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "New Product", created.SPU.Name)
	assert.Equal(t, testTenantID, created.SPU.TenantID, "el tenant sale del token")
	require.Len(t, created.SKUs, 1)
	assert.Equal(t, "150", created.SKUs[0].Price.String())

	resp, raw = call(t, app, http.MethodGet, "/api/products", bearer(t, testTenantID, "vendedor"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.SPU.ID, list[0].SPU.ID)

	// Otro tenant no ve el producto.
	resp, raw = call(t, app, http.MethodGet, "/api/products", bearer(t, "otra-tienda", "admin"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestProducts_SinPrecio_Retorna400(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := postJSON(t, app, "/api/products", bearer(t, testTenantID, "catalogo"), map[string]interface{}{
		"spu_id": "p1", "name": "New Product",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestProducts_VendedorNoPuedeCrear(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, _ := postJSON(t, app, "/api/products", bearer(t, testTenantID, "vendedor"), map[string]interface{}{
		"name": "X", "price": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProducts_SinToken_Retorna401(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, _ := call(t, app, http.MethodGet, "/api/products", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_TokenSinTenant_Retorna401(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := call(t, app, http.MethodGet, "/api/products", bearer(t, "", "admin"), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "tenant_id")
}

func TestSPUyFlujoDeSKUs(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	admin := bearer(t, testTenantID, "admin")

	resp, raw := postJSON(t, app, "/api/spus", admin, map[string]interface{}{
		"spu_id": "p1", "name": "Product 1", "attrs": map[string]interface{}{"talla": "M"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var spu dto.SPUResponse
	require.NoError(t, json.Unmarshal(raw, &spu))
	assert.Equal(t, "M", spu.Attrs["talla"])

	for _, barcode := range []string{"123", "124"} {
		resp, raw = postJSON(t, app, "/api/skus", admin, map[string]interface{}{
			"spu_id": spu.ID, "price": "100", "barcode": barcode, "unit": "und",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw = call(t, app, http.MethodGet, "/api/spus/"+spu.ID+"/skus", admin, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var skus []dto.SKUResponse
	require.NoError(t, json.Unmarshal(raw, &skus))
	require.Len(t, skus, 2)
	assert.Equal(t, "123", skus[0].Barcode)
	assert.Equal(t, "124", skus[1].Barcode)

	resp, _ = call(t, app, http.MethodGet, "/api/spus/"+spu.ID, admin, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, "/api/skus/"+skus[0].ID, admin, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNoEncontrado(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	admin := bearer(t, testTenantID, "admin")

	resp, raw := call(t, app, http.MethodGet, "/api/spus/no-existe", admin, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), "NOT_FOUND")

	resp, _ = call(t, app, http.MethodGet, "/api/skus/no-existe", admin, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Lista de SKU de un SPU desconocido: vacía, no 404.
	resp, raw = call(t, app, http.MethodGet, "/api/spus/no-existe/skus", admin, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreateSKU_SPUInexistente_Retorna422(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := postJSON(t, app, "/api/skus", bearer(t, testTenantID, "admin"), map[string]interface{}{
		"spu_id": "no-existe", "price": 10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), "SPU_NOT_FOUND")
}

func TestCuerpoInvalido_Retorna400(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := call(t, app, http.MethodPost, "/api/spus", bearer(t, testTenantID, "admin"),
		fiber.MIMEApplicationJSON, strings.NewReader("{no es json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

func TestImport_CuerpoCSV(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	admin := bearer(t, testTenantID, "admin")

	resp, raw := call(t, app, http.MethodPost, "/api/products/import", admin, "text/csv",
		strings.NewReader("name,price,barcode\nProduct A,100,12345\nProduct B,200,67890\n,5,1"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var res dto.ImportResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Products, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)

	resp, raw = call(t, app, http.MethodGet, "/api/products", admin, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 2)
}

func TestImport_Multipart(t *testing.T) {
	app := buildCatalogApp(1 << 20)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "productos.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("nombre,categoria,codigo de barras,precio\nArroz,granos,7701,3200\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, raw := call(t, app, http.MethodPost, "/api/products/import?detail=false",
		bearer(t, testTenantID, "catalogo"), mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 1, body["success"])
	assert.EqualValues(t, 0, body["failed"])
	assert.NotContains(t, body, "products", "detail=false omite los productos")
}

func TestImport_ColumnasPorQuery(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := call(t, app, http.MethodPost, "/api/products/import?columns=name,category,barcode,price",
		bearer(t, testTenantID, "admin"), "text/csv", strings.NewReader("x,y,z,w\nCamisa,ropa,999,45000"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var res dto.ImportResult
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Equal(t, 1, res.Success)
	assert.Equal(t, "ropa", res.Products[0].SPU.CategoryID)
}

func TestImport_ColumnasInvalidas_Retorna400(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := call(t, app, http.MethodPost, "/api/products/import?columns=name,peso",
		bearer(t, testTenantID, "admin"), "text/csv", strings.NewReader("a,b\n"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_COLUMNS")
}

func TestImport_ArchivoGrande_Retorna413(t *testing.T) {
	app := buildCatalogApp(16)
	resp, _ := call(t, app, http.MethodPost, "/api/products/import",
		bearer(t, testTenantID, "admin"), "text/csv",
		strings.NewReader("name,price,barcode\nProduct A,100,12345\n"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestImport_VendedorNoPuedeImportar(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, _ := call(t, app, http.MethodPost, "/api/products/import",
		bearer(t, testTenantID, "vendedor"), "text/csv", strings.NewReader("name,price\nA,1"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPriceList_PDF(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	resp, raw := call(t, app, http.MethodGet, "/api/products/pricelist.pdf?title=Junio",
		bearer(t, testTenantID, "vendedor"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "lista-precios.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// Un tenant no ve ni amplía el catálogo de otro.
func TestSPUDeOtroTenant(t *testing.T) {
	app := buildCatalogApp(1 << 20)
	owner := bearer(t, testTenantID, "admin")
	intruder := bearer(t, "otra-tienda", "admin")

	resp, raw := postJSON(t, app, "/api/products", owner, map[string]interface{}{"name": "Pan", "price": 900})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = postJSON(t, app, "/api/skus", intruder, map[string]interface{}{"spu_id": created.SPU.ID, "price": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), "SPU_NOT_FOUND")

	resp, _ = call(t, app, http.MethodGet, "/api/spus/"+created.SPU.ID, intruder, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/skus/"+created.SKUs[0].ID, intruder, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = call(t, app, http.MethodGet, "/api/spus/"+created.SPU.ID+"/skus", intruder, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))

	// El dueño sigue viendo su SKU.
	resp, raw = call(t, app, http.MethodGet, "/api/spus/"+created.SPU.ID+"/skus", owner, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var skus []dto.SKUResponse
	require.NoError(t, json.Unmarshal(raw, &skus))
	assert.Len(t, skus, 1)
}
