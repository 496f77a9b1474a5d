package dto

// Códigos de error por fila del importador.
const (
	ImportErrRequired     = "REQUIRED"
	ImportErrInvalidPrice = "INVALID_PRICE"
	ImportErrParse        = "PARSE_ERROR"
	ImportErrStorage      = "STORAGE_ERROR"
)

// ImportResult resultado de una carga masiva. Success y Failed son el contrato;
// Products y Errors son detalle opcional para quien lo necesite.
type ImportResult struct {
	Success  int               `json:"success"`
	Failed   int               `json:"failed"`
	Products []ProductResponse `json:"products,omitempty"`
	Errors   []ImportRowError  `json:"errors,omitempty"`
}

// ImportRowError describe por qué se descartó una fila. Row es la línea del archivo (cabecera = 1).
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
