package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrSPUNotFound  = errors.New("el SPU referenciado no existe")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
)
