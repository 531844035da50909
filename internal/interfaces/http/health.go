package http

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-inventory/internal/application/dto"
)

// Readiness estado de la carga inicial. Mientras haya error la API responde 503
// en lugar de mostrar un catálogo vacío como si fuera real.
type Readiness struct {
	mu    sync.RWMutex
	store string
	err   error
}

// ErrInitializing la primera carga todavía no terminó.
var ErrInitializing = errors.New("carga inicial en curso")

// NewReadiness crea el estado para el driver dado. Arranca en ErrInitializing
// hasta que el primer intento de carga llame a Set.
func NewReadiness(store string) *Readiness {
	return &Readiness{store: store, err: ErrInitializing}
}

// Set registra el resultado del último intento de inicialización.
func (r *Readiness) Set(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Err error de inicialización vigente (nil si está lista).
func (r *Readiness) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// RequireReady corta con 503 INIT_FAILED mientras la inicialización no haya tenido éxito.
func RequireReady(r *Readiness) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := r.Err()
		switch {
		case errors.Is(err, ErrInitializing):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "INITIALIZING", Message: err.Error()})
		case err != nil:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "INIT_FAILED",
				Message: "no se pudieron cargar los datos iniciales: " + err.Error(),
			})
		}
		return c.Next()
	}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (r *Readiness) Health(c *fiber.Ctx) error {
	if err := r.Err(); err != nil {
		status := "init_failed"
		if errors.Is(err, ErrInitializing) {
			status = "initializing"
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: status, Store: r.store, Error: err.Error()})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Store: r.store})
}
