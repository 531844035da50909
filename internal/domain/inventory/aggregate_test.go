package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

func TestAggregate_SinFilas(t *testing.T) {
	got := inventory.Aggregate(nil)
	assert.Equal(t, 0, got.Products)
	assert.Equal(t, 0, got.TotalSent)
	assert.Equal(t, 0, got.TotalRemaining)
	assert.Equal(t, 0, got.TotalSold)
	assert.True(t, got.Revenue.IsZero())
	assert.True(t, got.RemainingValue.IsZero())
}

// TestAggregate_DosProductos A enviado 10 / sobrante 4 / precio 5; B sin movimiento a precio 20.
func TestAggregate_DosProductos(t *testing.T) {
	a := inventory.ReconcileRow(entity.Batches{10}, 4, dec("5"))
	b := inventory.ReconcileRow(entity.Batches{}, 0, dec("20"))

	got := inventory.Aggregate([]inventory.RowResult{a, b})
	assert.Equal(t, 2, got.Products)
	assert.Equal(t, 10, got.TotalSent)
	assert.Equal(t, 4, got.TotalRemaining)
	assert.Equal(t, 6, got.TotalSold)
	assert.True(t, got.Revenue.Equal(dec("30.00")))
	assert.True(t, got.RemainingValue.Equal(dec("20.00")))
}

func TestAggregate_IndependienteDelOrden(t *testing.T) {
	rows := []inventory.RowResult{
		inventory.ReconcileRow(entity.Batches{3, 4}, 1, dec("1.10")),
		inventory.ReconcileRow(entity.Batches{0, 0, 9}, 9, dec("7")),
		inventory.ReconcileRow(entity.Batches{12, 0, 0, 0, 0, 8}, 5, dec("0.5")),
	}
	reversed := []inventory.RowResult{rows[2], rows[1], rows[0]}

	x, y := inventory.Aggregate(rows), inventory.Aggregate(reversed)
	assert.Equal(t, x.TotalSent, y.TotalSent)
	assert.Equal(t, x.TotalRemaining, y.TotalRemaining)
	assert.Equal(t, x.TotalSold, y.TotalSold)
	assert.True(t, x.Revenue.Equal(y.Revenue))
	assert.True(t, x.RemainingValue.Equal(y.RemainingValue))
	assert.Equal(t, 3+4+9+12+8, x.TotalSent)
}
