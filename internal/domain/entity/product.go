package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Product representa un artículo de la panadería. Price es opcional (cero por defecto).
// CreatedAt solo se usa para ordenar el listado de forma estable.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio unitario de venta
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName recorta espacios y normaliza a NFC (nombres en cingalés o tamil
// pueden llegar con secuencias combinadas distintas).
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NameKey devuelve la clave de comparación sin distinción de mayúsculas.
// cases.Caser tiene estado: se crea uno por llamada.
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}

// SameName indica si dos nombres colisionan bajo la regla de unicidad del catálogo.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}

// UnitPrice devuelve el precio o cero si el producto no existe (referencia débil).
func (p *Product) UnitPrice() decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return p.Price
}
