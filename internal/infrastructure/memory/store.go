// Package memory implementa los puertos de persistencia en memoria (tests y STORE_DRIVER=memory).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*Store)(nil)
	_ repository.DailyRecordRepository = (*Store)(nil)
	_ repository.TxRunner              = (*Store)(nil)
)

type recordKey struct {
	productID string
	date      string
}

// Store guarda catálogo y registros diarios en mapas protegidos por un RWMutex.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	seq      int64
	products map[string]*entity.Product
	order    map[string]int64
	records  map[recordKey]*entity.DailyRecord
	now      func() time.Time
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		order:    make(map[string]int64),
		records:  make(map[recordKey]*entity.DailyRecord),
		now:      time.Now,
	}
}

// ── Productos ────────────────────────────────────────────────────────────────

// Create guarda un producto nuevo. Rechaza nombres repetidos (sin distinguir mayúsculas).
func (s *Store) Create(_ context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if entity.SameName(p.Name, product.Name) {
			return domain.ErrDuplicate
		}
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now()
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	cp := *product
	s.seq++
	s.products[cp.ID] = &cp
	s.order[cp.ID] = s.seq
	return nil
}

// GetByID devuelve nil, nil si no existe (mismo contrato que el adaptador PostgreSQL).
func (s *Store) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Update reemplaza nombre y precio.
func (s *Store) Update(_ context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, p := range s.products {
		if id != product.ID && entity.SameName(p.Name, product.Name) {
			return domain.ErrDuplicate
		}
	}
	current.Name = product.Name
	current.Price = product.Price
	current.UpdatedAt = product.UpdatedAt
	return nil
}

// List devuelve el catálogo en orden de creación.
func (s *Store) List(_ context.Context) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		return s.order[list[i].ID] < s.order[list[j].ID]
	})
	return list, nil
}

// Delete elimina un producto (los registros se eliminan con DeleteByProduct dentro de Run).
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	delete(s.order, id)
	return nil
}

// ── Registros diarios ────────────────────────────────────────────────────────

// ListByDate devuelve copias de los registros de la fecha indexadas por producto.
func (s *Store) ListByDate(_ context.Context, date string) (map[string]*entity.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*entity.DailyRecord)
	for k, r := range s.records {
		if k.date == date {
			out[k.productID] = r.Clone()
		}
	}
	return out, nil
}

// Upsert crea o reemplaza por (ProductID, Date).
func (s *Store) Upsert(_ context.Context, record *entity.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	k := recordKey{productID: record.ProductID, date: record.Date}
	if existing, ok := s.records[k]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		if record.ID == "" {
			record.ID = uuid.New().String()
		}
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	s.records[k] = record.Clone()
	return nil
}

// DeleteByProduct elimina todos los registros del producto.
func (s *Store) DeleteByProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.records {
		if k.productID == productID {
			delete(s.records, k)
		}
	}
	return nil
}

// ── Unidad de trabajo ────────────────────────────────────────────────────────

// Run serializa las unidades de trabajo y restaura el estado previo si fn falla.
func (s *Store) Run(ctx context.Context, fn func(repository.ProductRepository, repository.DailyRecordRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	seq      int64
	products map[string]*entity.Product
	order    map[string]int64
	records  map[recordKey]*entity.DailyRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		seq:      s.seq,
		products: make(map[string]*entity.Product, len(s.products)),
		order:    make(map[string]int64, len(s.order)),
		records:  make(map[recordKey]*entity.DailyRecord, len(s.records)),
	}
	for k, v := range s.products {
		cp := *v
		snap.products[k] = &cp
	}
	for k, v := range s.order {
		snap.order[k] = v
	}
	for k, v := range s.records {
		snap.records[k] = v.Clone()
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.products = snap.products
	s.order = snap.order
	s.records = snap.records
}
