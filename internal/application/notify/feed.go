// Package notify mantiene los avisos transitorios (toasts) que la interfaz consulta por polling.
package notify

import (
	"sync"
	"time"
)

// Level severidad del aviso.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultCapacity cantidad de avisos que se conservan.
const DefaultCapacity = 100

// Notice aviso transitorio. Seq es creciente y permite pedir solo los nuevos.
type Notice struct {
	Seq       uint64    `json:"seq"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ProductID string    `json:"product_id,omitempty"`
	Date      string    `json:"date,omitempty"`
	At        time.Time `json:"at"`
}

// Feed buffer circular de avisos, seguro para uso concurrente.
type Feed struct {
	mu    sync.Mutex
	now   func() time.Time
	seq   uint64
	items []Notice
	cap   int
}

// NewFeed crea un feed con la capacidad dada (DefaultCapacity si <= 0).
func NewFeed(capacity int, now func() time.Time) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{now: now, cap: capacity}
}

// Publish agrega un aviso y devuelve su Seq.
func (f *Feed) Publish(level Level, message, productID, date string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.items = append(f.items, Notice{
		Seq: f.seq, Level: level, Message: message,
		ProductID: productID, Date: date, At: f.now(),
	})
	if over := len(f.items) - f.cap; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
	return f.seq
}

func (f *Feed) Success(message, productID, date string) uint64 {
	return f.Publish(LevelSuccess, message, productID, date)
}

func (f *Feed) Warning(message, productID, date string) uint64 {
	return f.Publish(LevelWarning, message, productID, date)
}

func (f *Feed) Error(message, productID, date string) uint64 {
	return f.Publish(LevelError, message, productID, date)
}

// Since devuelve los avisos con Seq > after, del más viejo al más nuevo.
func (f *Feed) Since(after uint64) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notice, 0)
	for _, n := range f.items {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}

// Last Seq del último aviso publicado (0 si no hay).
func (f *Feed) Last() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}
