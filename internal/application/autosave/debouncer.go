/*
Package autosave agrupa ráfagas de ediciones en una sola escritura por clave.

Cada clave tiene como máximo un timer pendiente. Una nueva edición cancela el
timer anterior y lo reprograma (debounce de flanco final, sin tope de espera).
El disparo y la cancelación se resuelven bajo el mismo mutex con un contador de
generación: un callback cuyo timer fue reemplazado o cancelado nunca se ejecuta.
Flush ejecuta lo pendiente y espera a los callbacks que ya estaban corriendo.
*/
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay intervalo de silencio por defecto antes de guardar.
const DefaultDelay = 500 * time.Millisecond

type pending struct {
	gen   uint64
	timer Timer
	fn    func()
}

// Debouncer mapa de timers cancelables indexado por K.
type Debouncer[K comparable] struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	idle    *sync.Cond // señala running == 0
	gen     uint64
	running int
	pending map[K]*pending
}

// NewDebouncer crea un debouncer con el intervalo dado (DefaultDelay si <= 0).
func NewDebouncer[K comparable](clock Clock, delay time.Duration) *Debouncer[K] {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer[K]{clock: clock, delay: delay, pending: make(map[K]*pending)}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Delay intervalo configurado.
func (d *Debouncer[K]) Delay() time.Duration { return d.delay }

// Trigger (re)programa fn para key. Si había un timer pendiente para key se descarta.
func (d *Debouncer[K]) Trigger(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	p := &pending{gen: gen, fn: fn}
	d.pending[key] = p
	p.timer = d.clock.AfterFunc(d.delay, func() { d.fire(key, gen) })
}

func (d *Debouncer[K]) fire(key K, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.running++
	d.mu.Unlock()

	defer d.done()
	p.fn()
}

func (d *Debouncer[K]) done() {
	d.mu.Lock()
	d.running--
	if d.running == 0 {
		d.idle.Broadcast()
	}
	d.mu.Unlock()
}

// Cancel descarta el timer de key. Idempotente: false si no había nada pendiente.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// CancelAll descarta todos los timers y devuelve cuántos había.
func (d *Debouncer[K]) CancelAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.pending)
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
	return n
}

// Flush ejecuta ya todos los callbacks pendientes y espera a los que ya se
// dispararon y siguen en curso (apagado ordenado). Devuelve cuántos ejecutó.
func (d *Debouncer[K]) Flush() int {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	d.Wait()
	return len(fns)
}

// Wait bloquea hasta que no quede ningún callback disparado en ejecución.
func (d *Debouncer[K]) Wait() {
	d.mu.Lock()
	for d.running > 0 {
		d.idle.Wait()
	}
	d.mu.Unlock()
}

// Pending cantidad de claves con timer activo.
func (d *Debouncer[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// IsPending indica si key tiene un timer activo.
func (d *Debouncer[K]) IsPending(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}
