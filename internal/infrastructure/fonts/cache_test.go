package fonts_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/internal/infrastructure/fonts"
)

func TestCache_DescargaUnaVez(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ttf-bytes"))
	}))
	defer srv.Close()

	c := fonts.NewCache(srv.URL+"/NotoSansSinhala-Regular.ttf", t.TempDir())
	p1, err := c.Path(context.Background())
	require.NoError(t, err)
	p2, err := c.Path(context.Background())
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int32(1), hits.Load())
	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "ttf-bytes", string(data))
}

func TestCache_Errores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fonts.NewCache(srv.URL+"/missing.ttf", t.TempDir()).Path(context.Background())
	assert.Error(t, err)

	_, err = fonts.NewCache("", t.TempDir()).Path(context.Background())
	assert.ErrorIs(t, err, fonts.ErrNoURL)
}

// TestCache_FalloRecienteNoVuelveAPedir con el CDN caído los reportes no esperan la red en cada pedido.
func TestCache_FalloRecienteNoVuelveAPedir(t *testing.T) {
	var hits atomic.Int32
	var up atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if !up.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ttf-bytes"))
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c := fonts.NewCache(srv.URL+"/font.ttf", t.TempDir(),
		fonts.WithCooldown(time.Minute),
		fonts.WithNow(func() time.Time { return now }))

	_, err := c.Path(context.Background())
	require.Error(t, err)
	first := hits.Load()

	up.Store(true)
	_, err = c.Path(context.Background())
	require.Error(t, err, "dentro del cooldown se repite el último error")
	assert.Equal(t, first, hits.Load())

	now = now.Add(2 * time.Minute)
	p, err := c.Path(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, p)
	assert.Greater(t, hits.Load(), first)
}
