package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidState = errors.New("operación no permitida en el estado actual")
	ErrConflict     = errors.New("conflicto de versión: el documento fue modificado")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrEmailExists  = errors.New("el email ya está registrado")
)
