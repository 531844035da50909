package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
)

// RowResult resultado de conciliar una fila (producto) del día.
type RowResult struct {
	Batches      entity.Batches // tandas ya recortadas a >= 0
	TotalSent    int
	RemainingQty int // final, posiblemente recortado a TotalSent
	SoldQty      int
	StockValue   decimal.Decimal // RemainingQty × precio
	Revenue      decimal.Decimal // SoldQty × precio
	WasClamped   bool            // RemainingQty venía mayor que TotalSent
}

// ReconcileRow calcula enviado, sobrante, vendido, valor de stock e ingreso de una fila.
//
// Valores negativos (tandas, sobrante, precio) se tratan como 0 sin marcar error.
// Si el sobrante supera lo enviado se recorta a TotalSent y WasClamped = true; es la
// única corrección posible y nunca se rechaza la entrada. Función pura e idempotente.
func ReconcileRow(batches entity.Batches, remainingQty int, unitPrice decimal.Decimal) RowResult {
	var clean entity.Batches
	for i, v := range batches {
		clean[i] = nonNegative(v)
	}
	totalSent := clean.Sum()
	remaining := nonNegative(remainingQty)
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}

	clamped := false
	if remaining > totalSent {
		remaining = totalSent
		clamped = true
	}
	sold := totalSent - remaining
	if sold < 0 {
		sold = 0
	}

	return RowResult{
		Batches:      clean,
		TotalSent:    totalSent,
		RemainingQty: remaining,
		SoldQty:      sold,
		StockValue:   unitPrice.Mul(decimal.NewFromInt(int64(remaining))),
		Revenue:      unitPrice.Mul(decimal.NewFromInt(int64(sold))),
		WasClamped:   clamped,
	}
}

// ReconcileRecord concilia un registro almacenado con el precio actual del producto.
// Un registro nil equivale a la fila implícita en ceros.
func ReconcileRecord(rec *entity.DailyRecord, unitPrice decimal.Decimal) RowResult {
	if rec == nil {
		return ReconcileRow(entity.Batches{}, 0, unitPrice)
	}
	return ReconcileRow(rec.Batches, rec.RemainingQty, unitPrice)
}

// CanPersist última verificación antes de guardar: el sobrante no puede superar lo enviado.
// Se aplica también cuando TotalSent es 0 para que todo registro guardado cumpla
// 0 <= RemainingQty <= TotalSent.
func CanPersist(batches entity.Batches, remainingQty int) bool {
	if remainingQty < 0 {
		return false
	}
	for _, v := range batches {
		if v < 0 {
			return false
		}
	}
	return remainingQty <= batches.Sum()
}

// Apply copia el resultado conciliado sobre el registro (campos derivados incluidos).
func (r RowResult) Apply(rec *entity.DailyRecord) {
	rec.Batches = r.Batches
	rec.TotalSent = r.TotalSent
	rec.RemainingQty = r.RemainingQty
	rec.SoldQty = r.SoldQty
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
