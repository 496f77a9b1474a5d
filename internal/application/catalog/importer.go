package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Importer convierte texto CSV en pares SPU+SKU. Cada fila se procesa de forma
// independiente: una fila inválida se cuenta como fallida y no detiene el lote.
type Importer struct {
	store   *Store
	mapping *ColumnMapping // nil = deducir de la cabecera
	log     zerolog.Logger
	now     func() time.Time
}

// ImporterOption configura el importador.
type ImporterOption func(*Importer)

// WithColumnMapping fija el orden de columnas en vez de deducirlo de la cabecera.
func WithColumnMapping(m ColumnMapping) ImporterOption {
	return func(im *Importer) { im.mapping = &m }
}

// NewImporter construye el importador sobre el servicio del catálogo.
func NewImporter(store *Store, log zerolog.Logger, opts ...ImporterOption) *Importer {
	im := &Importer{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFromText importa texto ya en memoria. Ver Import.
func (im *Importer) ImportFromText(ctx context.Context, tenantID, raw string) (*dto.ImportResult, error) {
	return im.Import(ctx, tenantID, strings.NewReader(raw), nil)
}

// maxLineBytes limita el largo de una fila del archivo.
const maxLineBytes = 1 << 20

// Import lee el archivo línea por línea: la primera línea no vacía es la cabecera
// y cada línea siguiente es un registro independiente, así que un error de formato
// (p.ej. una comilla sin cerrar) solo afecta a su propia fila. Cada fila válida crea
// un SPU con un SKU. mapping, si no es nil, tiene prioridad sobre la configuración.
// Solo devuelve error si no se puede leer la entrada o se cancela ctx; los errores
// de fila van en el resultado.
func (im *Importer) Import(ctx context.Context, tenantID string, r io.Reader, mapping *ColumnMapping) (*dto.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo de importación: %w", err)
	}
	result := &dto.ImportResult{Products: []dto.ProductResponse{}, Errors: []dto.ImportRowError{}}

	scanner := bufio.NewScanner(strings.NewReader(decodeText(data)))
	scanner.Buffer(nil, maxLineBytes)

	var (
		cols       ColumnMapping
		seenHeader bool
		line       int
	)
	batch := im.now().UnixMilli()

	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record, err := parseLine(text)
		if !seenHeader {
			if err != nil {
				return nil, fmt.Errorf("leer cabecera: %w", err)
			}
			seenHeader = true
			cols = im.columnsFor(record, mapping)
			continue
		}
		if err != nil {
			im.fail(result, dto.ImportRowError{Row: line, Code: dto.ImportErrParse, Message: parseMessage(err)})
			continue
		}
		if blankRecord(record) {
			continue
		}
		im.importRow(ctx, result, tenantID, cols, record, line, batch)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("leer fila %d: %w", line+1, err)
	}

	im.log.Info().
		Str("tenant_id", tenantID).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("importación de catálogo finalizada")
	return result, nil
}

// parseLine separa los campos de una sola línea.
func parseLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func parseMessage(err error) string {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

// importRow valida una fila y crea SPU + SKU en una sola transacción.
func (im *Importer) importRow(ctx context.Context, result *dto.ImportResult, tenantID string, cols ColumnMapping, record []string, line int, batch int64) {
	name := cols.field(record, cols.Name)
	if name == "" {
		im.fail(result, dto.ImportRowError{Row: line, Column: "name", Code: dto.ImportErrRequired, Message: "name es requerido"})
		return
	}
	rawPrice := cols.field(record, cols.Price)
	if rawPrice == "" {
		im.fail(result, dto.ImportRowError{Row: line, Column: "price", Code: dto.ImportErrRequired, Message: "price es requerido"})
		return
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil || price.IsNegative() {
		im.fail(result, dto.ImportRowError{Row: line, Column: "price", Code: dto.ImportErrInvalidPrice, Message: fmt.Sprintf("precio inválido: %q", rawPrice)})
		return
	}

	var product dto.ProductResponse
	err = im.store.InTx(ctx, func(tx *Store) error {
		spu, err := tx.CreateSPU(dto.CreateSPURequest{
			TenantID:   tenantID,
			SPUCode:    fmt.Sprintf("SPU-%d-%d", batch, line),
			Name:       name,
			CategoryID: cols.field(record, cols.Category),
		})
		if err != nil {
			return err
		}
		sku, err := tx.CreateSKU(dto.CreateSKURequest{
			SPUID:   spu.ID,
			Barcode: cols.field(record, cols.Barcode),
			Price:   &price,
		})
		if err != nil {
			return err
		}
		product = dto.ToProductResponse(spu, []*entity.ProductSKU{sku})
		return nil
	})
	if err != nil {
		im.fail(result, dto.ImportRowError{Row: line, Code: dto.ImportErrStorage, Message: err.Error()})
		return
	}
	result.Success++
	result.Products = append(result.Products, product)
}

func (im *Importer) fail(result *dto.ImportResult, rowErr dto.ImportRowError) {
	result.Failed++
	result.Errors = append(result.Errors, rowErr)
	im.log.Debug().
		Int("row", rowErr.Row).
		Str("code", rowErr.Code).
		Str("column", rowErr.Column).
		Msg(rowErr.Message)
}

// columnsFor: mapeo de la llamada > mapeo configurado > cabecera > por defecto.
func (im *Importer) columnsFor(header []string, mapping *ColumnMapping) ColumnMapping {
	if mapping != nil {
		return *mapping
	}
	if im.mapping != nil {
		return *im.mapping
	}
	if m, ok := ResolveColumnMapping(header); ok {
		return m
	}
	return DefaultColumnMapping
}

// decodeText quita el BOM y, si el archivo no es UTF-8 válido, lo lee como
// Windows-1252 (exportación típica de Excel).
func decodeText(data []byte) string {
	if !utf8.Valid(data) {
		if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
			data = decoded
		}
	}
	return strings.TrimPrefix(string(data), "\ufeff")
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
