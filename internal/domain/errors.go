package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrNoData       = errors.New("no hay datos para el reporte")

	// Validaciones del catálogo; envuelven ErrInvalidInput.
	ErrEmptyName     = fmt.Errorf("%w: el nombre del producto es obligatorio", ErrInvalidInput)
	ErrNegativePrice = fmt.Errorf("%w: el precio no puede ser negativo", ErrInvalidInput)

	// Ventana de fechas.
	ErrDateOutOfRange  = fmt.Errorf("%w: fecha fuera del rango consultable", ErrInvalidInput)
	ErrDateNotEditable = errors.New("la fecha no es editable")
)
