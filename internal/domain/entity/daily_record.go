package entity

import "time"

// NumBatches cantidad fija de tandas de despacho por día.
const NumBatches = 6

// Batches cantidades enviadas en cada tanda del día.
type Batches [NumBatches]int

// Sum devuelve el total enviado.
func (b Batches) Sum() int {
	total := 0
	for _, v := range b {
		total += v
	}
	return total
}

// Slice copia las tandas a un slice (DTOs y drivers que no aceptan arrays).
func (b Batches) Slice() []int {
	out := make([]int, NumBatches)
	copy(out, b[:])
	return out
}

// BatchesFromSlice rellena con ceros o trunca a NumBatches.
func BatchesFromSlice(values []int) Batches {
	var b Batches
	copy(b[:], values)
	return b
}

// DailyRecord registro diario por producto. Clave compuesta (ProductID, Date).
// TotalSent y SoldQty son derivados; se guardan solo para facilitar consultas.
type DailyRecord struct {
	ID           string
	ProductID    string
	Date         string // YYYY-MM-DD, sin componente horario
	Batches      Batches
	TotalSent    int
	RemainingQty int
	SoldQty      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEmptyRecord crea el registro implícito (en ceros) de un producto sin datos para la fecha.
func NewEmptyRecord(productID, date string) *DailyRecord {
	return &DailyRecord{ProductID: productID, Date: date}
}

// Persisted indica si el registro ya existe en almacenamiento.
func (r *DailyRecord) Persisted() bool {
	return r != nil && r.ID != ""
}

// Clone copia el registro (Batches es un array, se copia por valor).
func (r *DailyRecord) Clone() *DailyRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
