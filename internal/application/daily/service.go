/*
Package daily mantiene la planilla del día activo y la guarda con autosave.

FLUJO:

	EditRow → ReconcileRow → estado vivo (Rows) → Debouncer.Trigger(productID)
	timer vence → commit: ¿misma fecha? ¿editable? CanPersist → Upsert → aviso

Cambiar de fecha cancela todos los timers pendientes para que ninguna escritura
tardía caiga sobre la fecha equivocada. Un guardado fallido no se reintenta;
la próxima edición es la única forma de recuperarlo.

Los commits de un mismo producto se serializan con un mutex por fila y leen la
fila viva recién al tomarlo, así la última escritura en terminar es siempre la
del estado más reciente. Orden de locks: fila → s.mu.
*/
package daily

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/bakery-inventory/internal/application/autosave"
	"github.com/jhoicas/bakery-inventory/internal/application/notify"
	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

// Mensajes de los avisos transitorios.
const (
	MsgSaved       = "Saved ✓"
	MsgSaveFailed  = "Auto-save failed"
	MsgClamped     = "Remaining cannot exceed total sent; adjusted"
	defaultTimeout = 10 * time.Second
)

// Options parámetros del servicio.
type Options struct {
	Policy       inventory.Policy
	Location     *time.Location // zona de la tienda para "hoy"
	Delay        time.Duration  // intervalo de debounce
	WriteTimeout time.Duration  // timeout de cada Upsert
}

// State estado explícito de la planilla activa.
type State struct {
	Date     string
	Products []*entity.Product
	Rows     map[string]*entity.DailyRecord // por ProductID; ausente = fila en ceros
}

// Service planilla diaria con guardado diferido por producto.
type Service struct {
	products repository.ProductRepository
	records  repository.DailyRecordRepository
	clock    autosave.Clock
	gate     *autosave.Debouncer[string]
	feed     *notify.Feed
	log      zerolog.Logger
	policy   inventory.Policy
	loc      *time.Location
	timeout  time.Duration

	mu      sync.Mutex
	state   State
	writers map[string]*sync.Mutex // por ProductID
}

// NewService construye el servicio.
func NewService(
	products repository.ProductRepository,
	records repository.DailyRecordRepository,
	clock autosave.Clock,
	feed *notify.Feed,
	log zerolog.Logger,
	opts Options,
) *Service {
	if clock == nil {
		clock = autosave.SystemClock{Location: opts.Location}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Policy == (inventory.Policy{}) {
		opts.Policy = inventory.DefaultPolicy()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultTimeout
	}
	if feed == nil {
		feed = notify.NewFeed(0, clock.Now)
	}
	return &Service{
		products: products,
		records:  records,
		clock:    clock,
		gate:     autosave.NewDebouncer[string](clock, opts.Delay),
		feed:     feed,
		log:      log,
		policy:   opts.Policy,
		loc:      opts.Location,
		timeout:  opts.WriteTimeout,
		writers:  make(map[string]*sync.Mutex),
	}
}

// Today hoy en la zona de la tienda.
func (s *Service) Today() time.Time {
	return s.clock.Now().In(s.loc)
}

// Policy ventana de fechas configurada.
func (s *Service) Policy() inventory.Policy { return s.policy }

// Limits rango consultable a partir de hoy.
func (s *Service) Limits() inventory.Limits {
	return s.policy.Limits(s.Today())
}

// Feed avisos publicados por el servicio.
func (s *Service) Feed() *notify.Feed { return s.feed }

// ActiveDate fecha de la planilla cargada ("" si ninguna).
func (s *Service) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Date
}

// Pending cantidad de filas con guardado pendiente.
func (s *Service) Pending() int { return s.gate.Pending() }

// Delay intervalo de debounce del autosave.
func (s *Service) Delay() time.Duration { return s.gate.Delay() }

// checkDate valida el formato y que la fecha esté en el rango consultable.
func (s *Service) checkDate(date string) (time.Time, error) {
	d, err := inventory.ParseDate(date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !s.Limits().Contains(d) {
		return time.Time{}, domain.ErrDateOutOfRange
	}
	return d, nil
}

// load lee catálogo y registros de la fecha en paralelo.
func (s *Service) load(ctx context.Context, date string) ([]*entity.Product, map[string]*entity.DailyRecord, error) {
	var (
		products []*entity.Product
		records  map[string]*entity.DailyRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.records.ListByDate(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if records == nil {
		records = make(map[string]*entity.DailyRecord)
	}
	return products, records, nil
}

// Open carga la planilla de date y la deja como activa. Si la fecha cambia se
// cancelan los guardados pendientes de la anterior; si es la misma se conservan
// las filas con edición pendiente.
func (s *Service) Open(ctx context.Context, date string) (*Sheet, error) {
	d, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	products, records, err := s.load(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("cargar planilla %s: %w", date, err)
	}

	s.mu.Lock()
	if s.state.Date != date {
		if n := s.gate.CancelAll(); n > 0 {
			s.log.Warn().Str("from", s.state.Date).Str("to", date).Int("canceled", n).
				Msg("cambio de fecha con guardados pendientes")
		}
	} else {
		for id, live := range s.state.Rows {
			if s.gate.IsPending(id) {
				records[id] = live
			}
		}
	}
	s.state = State{Date: date, Products: products, Rows: records}
	sheet := s.sheetLocked(d)
	s.mu.Unlock()

	return sheet, nil
}

// EditRow aplica una edición a la fila de productID, devuelve la fila conciliada
// y programa el guardado diferido.
func (s *Service) EditRow(ctx context.Context, date, productID string, batches entity.Batches, remaining int) (*RowEdit, error) {
	d, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	if !s.policy.IsEditable(d, s.Today()) {
		return nil, domain.ErrDateNotEditable
	}
	if s.ActiveDate() != date {
		if _, err := s.Open(ctx, date); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	product := s.productLocked(productID)
	if product == nil || s.state.Date != date {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	live := s.state.Rows[productID].Clone()
	if live == nil {
		live = entity.NewEmptyRecord(productID, date)
	}
	result := inventory.ReconcileRow(batches, remaining, product.UnitPrice())
	result.Apply(live)
	s.state.Rows[productID] = live
	edit := &RowEdit{
		Row:        Row{Product: product, Record: live.Clone(), Result: result},
		Totals:     s.totalsLocked(),
		WasClamped: result.WasClamped,
	}
	s.gate.Trigger(productID, func() { s.commit(productID, date) })
	s.mu.Unlock()

	if result.WasClamped {
		s.feed.Warning(MsgClamped, productID, date)
	}
	return edit, nil
}

// writer mutex de escritura de la fila de productID.
func (s *Service) writer(productID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.writers[productID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[productID] = w
	}
	return w
}

// commit se ejecuta al vencer el debounce de productID.
func (s *Service) commit(productID, date string) {
	log := s.log.With().Str("product_id", productID).Str("date", date).Logger()

	w := s.writer(productID)
	w.Lock()
	defer w.Unlock()

	s.mu.Lock()
	if s.state.Date != date {
		s.mu.Unlock()
		log.Debug().Msg("guardado descartado: la fecha activa cambió")
		return
	}
	if s.productLocked(productID) == nil {
		s.mu.Unlock()
		log.Debug().Msg("guardado descartado: el producto fue eliminado")
		return
	}
	row := s.state.Rows[productID].Clone()
	s.mu.Unlock()

	d, err := inventory.ParseDate(date, s.loc)
	if err != nil || !s.policy.IsEditable(d, s.Today()) {
		log.Debug().Msg("guardado descartado: la fecha ya no es editable")
		return
	}
	if row == nil {
		return
	}
	if !inventory.CanPersist(row.Batches, row.RemainingQty) {
		log.Warn().Int("remaining", row.RemainingQty).Int("sent", row.Batches.Sum()).
			Msg("guardado descartado: sobrante mayor que lo enviado")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	upsertErr := s.records.Upsert(ctx, row)

	s.mu.Lock()
	deleted := s.productLocked(productID) == nil
	if upsertErr == nil && !deleted && s.state.Date == date {
		if live := s.state.Rows[productID]; live != nil {
			live.ID = row.ID
			live.CreatedAt = row.CreatedAt
			live.UpdatedAt = row.UpdatedAt
		}
	}
	s.mu.Unlock()

	switch {
	case deleted:
		// ProductDeleted espera este mutex y limpia los registros al tomarlo.
		log.Debug().Err(upsertErr).Msg("producto eliminado durante el guardado")
	case upsertErr != nil:
		log.Error().Err(upsertErr).Msg("error en autosave")
		s.feed.Error(MsgSaveFailed, productID, date)
	default:
		log.Debug().Int("sent", row.TotalSent).Int("remaining", row.RemainingQty).Msg("fila guardada")
		s.feed.Success(MsgSaved, productID, date)
	}
}

// Snapshot catálogo y registros de date para el reporte. Si date es la fecha activa
// se usa el estado vivo (incluye ediciones aún no guardadas).
func (s *Service) Snapshot(ctx context.Context, date string) ([]*entity.Product, map[string]*entity.DailyRecord, error) {
	if _, err := inventory.ParseDate(date, s.loc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	s.mu.Lock()
	if s.state.Date == date {
		products := make([]*entity.Product, len(s.state.Products))
		copy(products, s.state.Products)
		records := make(map[string]*entity.DailyRecord, len(s.state.Rows))
		for id, r := range s.state.Rows {
			records[id] = r.Clone()
		}
		s.mu.Unlock()
		return products, records, nil
	}
	s.mu.Unlock()
	return s.load(ctx, date)
}

// Flush ejecuta ya los guardados pendientes y espera a los que están en curso (apagado).
func (s *Service) Flush() int {
	return s.gate.Flush()
}

// ── Listener del catálogo ────────────────────────────────────────────────────

// ProductSaved refleja en la planilla activa un alta o edición del catálogo.
func (s *Service) ProductSaved(product *entity.Product) {
	if product == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Date == "" {
		return
	}
	cp := *product
	for i, p := range s.state.Products {
		if p.ID == cp.ID {
			s.state.Products[i] = &cp
			return
		}
	}
	s.state.Products = append(s.state.Products, &cp)
}

// ProductDeleted quita el producto de la planilla, cancela su guardado pendiente y
// espera al que esté en curso. Después borra los registros del producto otra vez:
// un Upsert que terminó después del borrado en cascada no deja huérfanos.
func (s *Service) ProductDeleted(productID string) {
	s.mu.Lock()
	delete(s.state.Rows, productID)
	for i, p := range s.state.Products {
		if p.ID == productID {
			s.state.Products = append(s.state.Products[:i], s.state.Products[i+1:]...)
			break
		}
	}
	w := s.writers[productID]
	s.mu.Unlock()
	s.gate.Cancel(productID)

	if w == nil {
		return
	}
	w.Lock()
	defer w.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.records.DeleteByProduct(ctx, productID); err != nil {
		s.log.Error().Err(err).Str("product_id", productID).Msg("limpiar registros del producto eliminado")
	}
	s.mu.Lock()
	delete(s.writers, productID)
	s.mu.Unlock()
}

func (s *Service) productLocked(id string) *entity.Product {
	for _, p := range s.state.Products {
		if p.ID == id {
			return p
		}
	}
	return nil
}
