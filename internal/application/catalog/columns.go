package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoColumn marca una columna ausente en el archivo.
const NoColumn = -1

// ColumnMapping posición (base 0) de cada campo en las filas del CSV.
type ColumnMapping struct {
	Name     int
	Price    int
	Barcode  int
	Category int
}

// DefaultColumnMapping corresponde a la cabecera "name,price,barcode".
var DefaultColumnMapping = ColumnMapping{Name: 0, Price: 1, Barcode: 2, Category: NoColumn}

// headerAliases nombres aceptados por campo, ya normalizados (minúsculas, sin tildes, "_").
var headerAliases = map[string]string{
	"name":             "name",
	"nombre":           "name",
	"producto":         "name",
	"product":          "name",
	"price":            "price",
	"precio":           "price",
	"precio_venta":     "price",
	"valor":            "price",
	"barcode":          "barcode",
	"codigo_barras":    "barcode",
	"codigo_de_barras": "barcode",
	"ean":              "barcode",
	"upc":              "barcode",
	"category":         "category",
	"category_id":      "category",
	"categoria":        "category",
	"categoria_id":     "category",
}

// ParseColumnOrder arma el mapeo desde una lista como "name,category,barcode,price".
// Vacío devuelve DefaultColumnMapping.
func ParseColumnOrder(order string) (ColumnMapping, error) {
	if strings.TrimSpace(order) == "" {
		return DefaultColumnMapping, nil
	}
	names := strings.Split(order, ",")
	m, matched, err := mappingFromNames(names)
	if err != nil {
		return ColumnMapping{}, err
	}
	if matched != len(names) {
		return ColumnMapping{}, fmt.Errorf("columnas de importación no reconocidas: %q", order)
	}
	if err := m.Validate(); err != nil {
		return ColumnMapping{}, err
	}
	return m, nil
}

// ResolveColumnMapping intenta deducir el mapeo desde la cabecera del archivo.
// ok es false si la cabecera no nombra al menos name y price, o repite un campo.
func ResolveColumnMapping(header []string) (m ColumnMapping, ok bool) {
	m, _, err := mappingFromNames(header)
	if err != nil {
		return m, false
	}
	return m, m.Validate() == nil
}

// Validate exige name y price presentes y posiciones distintas.
func (m ColumnMapping) Validate() error {
	if m.Name < 0 || m.Price < 0 {
		return fmt.Errorf("el mapeo de columnas requiere name y price")
	}
	seen := make(map[int]bool, 4)
	for _, idx := range []int{m.Name, m.Price, m.Barcode, m.Category} {
		if idx < 0 {
			continue
		}
		if seen[idx] {
			return fmt.Errorf("columna %d asignada a más de un campo", idx)
		}
		seen[idx] = true
	}
	return nil
}

// mappingFromNames asigna cada nombre reconocido a su posición. Un campo que
// aparece dos veces es un error.
func mappingFromNames(names []string) (ColumnMapping, int, error) {
	m := ColumnMapping{Name: NoColumn, Price: NoColumn, Barcode: NoColumn, Category: NoColumn}
	matched := 0
	for i, raw := range names {
		field, ok := headerAliases[normalizeHeader(raw)]
		if !ok {
			continue
		}
		matched++
		slot := m.slot(field)
		if *slot != NoColumn {
			return m, matched, fmt.Errorf("campo %q repetido en las columnas %d y %d", field, *slot, i)
		}
		*slot = i
	}
	return m, matched, nil
}

func (m *ColumnMapping) slot(field string) *int {
	switch field {
	case "name":
		return &m.Name
	case "price":
		return &m.Price
	case "barcode":
		return &m.Barcode
	default:
		return &m.Category
	}
}

// normalizeHeader: "Código de Barras" -> "codigo_de_barras".
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(strings.TrimSpace(out))
	return strings.Join(strings.FieldsFunc(out, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func (m ColumnMapping) field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
