package inventory

import (
	"fmt"
	"time"
)

// DateLayout formato de fecha de los registros diarios (sin hora).
const DateLayout = "2006-01-02"

// Valores por defecto de la ventana de fechas.
const (
	DefaultHistoryDays       = 90
	DefaultEditableRangeDays = 1
)

// Policy agrupa los parámetros de la ventana de consulta y edición.
type Policy struct {
	HistoryDays       int // días hacia atrás consultables
	EditableRangeDays int // ±N días editables alrededor de hoy
}

// DefaultPolicy 90 días de historial, solo ayer/hoy/mañana editables.
func DefaultPolicy() Policy {
	return Policy{HistoryDays: DefaultHistoryDays, EditableRangeDays: DefaultEditableRangeDays}
}

// Limits rango consultable inclusivo [Min, Max].
type Limits struct {
	Min time.Time
	Max time.Time
}

// Contains indica si date cae dentro del rango (comparando días civiles).
func (l Limits) Contains(date time.Time) bool {
	d := civil(date)
	return !d.Before(civil(l.Min)) && !d.After(civil(l.Max))
}

// IsEditable indica si los registros de date se pueden modificar dado today.
// Editable si -editableRangeDays <= diff <= editableRangeDays.
func IsEditable(date, today time.Time, editableRangeDays int) bool {
	diff := DiffDays(date, today)
	return diff >= -editableRangeDays && diff <= editableRangeDays
}

// DateLimits calcula el rango consultable: min = today - historyDays, max = today + editableRangeDays.
// Es independiente de la editabilidad de cada fecha.
func DateLimits(today time.Time, historyDays, editableRangeDays int) Limits {
	t := MidnightIn(today)
	return Limits{
		Min: t.AddDate(0, 0, -historyDays),
		Max: t.AddDate(0, 0, editableRangeDays),
	}
}

// IsEditable aplica la política a una fecha.
func (p Policy) IsEditable(date, today time.Time) bool {
	return IsEditable(date, today, p.EditableRangeDays)
}

// Limits aplica la política a hoy.
func (p Policy) Limits(today time.Time) Limits {
	return DateLimits(today, p.HistoryDays, p.EditableRangeDays)
}

// DiffDays diferencia en días enteros date - today. Se calcula sobre el día civil
// de cada valor (en su propia zona) para no depender de cambios de horario.
func DiffDays(date, today time.Time) int {
	d := civil(date).Sub(civil(today))
	return int(d.Hours() / 24)
}

// MidnightIn devuelve la medianoche del mismo día civil en la zona de t.
func MidnightIn(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate interpreta "YYYY-MM-DD" como medianoche en loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

// FormatDate devuelve la fecha como "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// civil proyecta el día civil de t a medianoche UTC (los días UTC siempre duran 24h).
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
