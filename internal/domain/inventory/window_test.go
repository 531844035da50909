package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

// TestIsEditable_SimetricoAlrededorDeHoy ±1 editable, ±2 no.
func TestIsEditable_SimetricoAlrededorDeHoy(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	cases := map[int]bool{-2: false, -1: true, 0: true, 1: true, 2: false, -90: false}
	for offset, want := range cases {
		date := time.Date(2026, 10, 19+offset, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, want, inventory.IsEditable(date, today, 1), "offset %d", offset)
	}
}

func TestIsEditable_RangoConfigurable(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.True(t, inventory.IsEditable(today.AddDate(0, 0, -3), today, 3))
	assert.False(t, inventory.IsEditable(today.AddDate(0, 0, -4), today, 3))
	assert.True(t, inventory.IsEditable(today, today, 0))
	assert.False(t, inventory.IsEditable(today.AddDate(0, 0, 1), today, 0))
}

// TestDiffDays_CambioDeHorario el día del cambio de hora dura 23h; la diferencia sigue siendo 1.
func TestDiffDays_CambioDeHorario(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	before := time.Date(2026, 3, 7, 0, 0, 0, 0, ny)
	after := time.Date(2026, 3, 8, 23, 0, 0, 0, ny)

	assert.Equal(t, 1, inventory.DiffDays(after, before))
	assert.Equal(t, -1, inventory.DiffDays(before, after))
}

func TestDateLimits(t *testing.T) {
	today := time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)
	limits := inventory.DateLimits(today, 90, 1)

	assert.Equal(t, "2026-07-21", inventory.FormatDate(limits.Min))
	assert.Equal(t, "2026-10-20", inventory.FormatDate(limits.Max))
	assert.True(t, limits.Contains(limits.Min))
	assert.True(t, limits.Contains(limits.Max))
	assert.False(t, limits.Contains(limits.Max.AddDate(0, 0, 1)))
	assert.False(t, limits.Contains(limits.Min.AddDate(0, 0, -1)))

	// Una fecha consultable no implica que sea editable.
	old := today.AddDate(0, 0, -30)
	assert.True(t, limits.Contains(old))
	assert.False(t, inventory.IsEditable(old, today, 1))
}

func TestParseDate(t *testing.T) {
	colombo := mustLoc(t, "Asia/Colombo")
	d, err := inventory.ParseDate("2026-10-19", colombo)
	require.NoError(t, err)
	assert.Equal(t, colombo, d.Location())
	assert.Equal(t, "2026-10-19", inventory.FormatDate(d))

	_, err = inventory.ParseDate("19/10/2026", colombo)
	assert.Error(t, err)
}
