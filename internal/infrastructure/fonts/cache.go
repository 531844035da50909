// Package fonts descarga y cachea en disco la fuente TTF del reporte.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultURL fuente Noto Sans Sinhala (nombres de productos en cingalés).
const DefaultURL = "https://cdn.jsdelivr.net/gh/googlefonts/noto-fonts@main/hinted/ttf/NotoSansSinhala/NotoSansSinhala-Regular.ttf"

// DefaultCooldown tiempo durante el cual no se reintenta una descarga fallida.
const DefaultCooldown = 5 * time.Minute

// ErrNoURL no hay URL configurada.
var ErrNoURL = errors.New("fonts: url no configurada")

// Cache descarga la fuente una vez y la reutiliza desde dir. Tras un fallo
// devuelve el mismo error sin tocar la red hasta que pase el cooldown, para que
// el reporte caiga enseguida a helvetica.
type Cache struct {
	url      string
	dir      string
	client   *resty.Client
	group    singleflight.Group
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastErr  error
	failedAt time.Time
}

// Option ajusta la caché.
type Option func(*Cache)

// WithCooldown cambia DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(c *Cache) { c.cooldown = d }
}

// WithNow reemplaza el reloj (tests).
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache construye la caché. dir vacío usa el directorio temporal del sistema.
func NewCache(url, dir string, opts ...Option) *Cache {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "bakery-fonts")
	}
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(1).
		SetRetryWaitTime(300 * time.Millisecond)
	c := &Cache{url: url, dir: dir, client: client, cooldown: DefaultCooldown, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path devuelve la ruta local de la fuente, descargándola si aún no está en disco.
func (c *Cache) Path(ctx context.Context) (string, error) {
	if c.url == "" {
		return "", ErrNoURL
	}
	target := filepath.Join(c.dir, path.Base(c.url))
	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		return target, nil
	}

	if err := c.recentFailure(); err != nil {
		return "", err
	}

	v, err, _ := c.group.Do(target, func() (any, error) {
		err := c.download(ctx, target)
		c.mu.Lock()
		if err != nil {
			c.lastErr, c.failedAt = err, c.now()
		} else {
			c.lastErr = nil
		}
		c.mu.Unlock()
		return target, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) recentFailure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr != nil && c.now().Sub(c.failedAt) < c.cooldown {
		return c.lastErr
	}
	return nil
}

func (c *Cache) download(ctx context.Context, target string) error {
	resp, err := c.client.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return fmt.Errorf("fonts: descargar %s: %w", c.url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fonts: descargar %s: status %d", c.url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("fonts: descargar %s: respuesta vacía", c.url)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("fonts: crear caché: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, "font-*.tmp")
	if err != nil {
		return fmt.Errorf("fonts: archivo temporal: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("fonts: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("fonts: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("fonts: mover a caché: %w", err)
	}
	return nil
}
