package http

import (
	"bytes"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// ImportHandler recibe archivos CSV para la carga masiva del catálogo (protegido).
type ImportHandler struct {
	importer *catalog.Importer
	maxBytes int
}

// NewImportHandler construye el handler. maxBytes limita el tamaño del archivo.
func NewImportHandler(importer *catalog.Importer, maxBytes int) *ImportHandler {
	return &ImportHandler{importer: importer, maxBytes: maxBytes}
}

// Import godoc
// @Summary      Importar productos desde CSV
// @Description  Cuerpo text/csv o multipart con campo "file". Cada fila válida crea un SPU y un SKU;
// @Description  las inválidas se cuentan en failed sin detener el lote.
// @Tags         products
// @Security     Bearer
// @Accept       text/csv
// @Produce      json
// @Param        columns  query  string  false  "Orden de columnas, p.ej. name,category,barcode,price"
// @Param        detail   query  bool    false  "Incluir productos creados"  default(true)
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "tenant_id requerido"})
	}

	var mapping *catalog.ColumnMapping
	if cols := c.Query("columns"); cols != "" {
		m, err := catalog.ParseColumnOrder(cols)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_COLUMNS", Message: err.Error()})
		}
		mapping = &m
	}

	body, err := h.readBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	if len(body) > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
	}

	result, err := h.importer.Import(c.UserContext(), tenantID, bytes.NewReader(body), mapping)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IMPORT_FAILED", Message: err.Error()})
	}
	if !c.QueryBool("detail", true) {
		result.Products = nil
	}
	return c.JSON(result)
}

// readBody devuelve el archivo del campo "file" si es multipart; si no, el cuerpo crudo.
func (h *ImportHandler) readBody(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Body(), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, int64(h.maxBytes)+1))
}
