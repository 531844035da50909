package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bakery-inventory/internal/application/auth"
	"github.com/jhoicas/bakery-inventory/internal/application/autosave"
	"github.com/jhoicas/bakery-inventory/internal/application/catalog"
	"github.com/jhoicas/bakery-inventory/internal/application/daily"
	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/bakery-inventory/internal/interfaces/http"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(context.Context, *report.DailyReport) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type server struct {
	app   *fiber.App
	store *memory.Store
	clock *autosave.ManualClock
	ready *apphttp.Readiness
}

func newServer(t *testing.T, secret string) *server {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	clock := autosave.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	svc := daily.NewService(store, store, clock, nil, log, daily.Options{Location: time.UTC, Delay: 500 * time.Millisecond})
	cat := catalog.NewUseCase(store, store, log, svc)
	reports := report.NewUseCase(svc, fakeRenderer{}, report.Branding{Title: "Bakery Polina", Currency: "Rs."}, log, clock.Now)

	hash, err := bcrypt.GenerateFromPassword([]byte("polina"), bcrypt.MinCost)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(string(hash), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: testIssuer})

	ready := apphttp.NewReadiness("memory")
	ready.Set(nil)
	app := apphttp.NewApp("bakery-test", "*")
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog: cat, Daily: svc, Reports: reports, Feed: svc.Feed(), AuthUC: authUC,
		Ready: ready, JWTSecret: secret, ReportPerMinute: 2, Log: log,
	})
	return &server{app: app, store: store, clock: clock, ready: ready}
}

func (s *server) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// ─── Catálogo ────────────────────────────────────────────────────────────────

func TestProductos_CRUD(t *testing.T) {
	s := newServer(t, "")

	resp, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": " Bun ", "price": "10"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	bun := decode[dto.ProductResponse](t, raw)
	assert.Equal(t, "Bun", bun.Name)

	resp, raw = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "BUN", "price": "3"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Roll", "price": "-1"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = s.do(t, http.MethodPost, "/api/products", map[string]any{"price": "1"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodPut, "/api/products/"+bun.ID, map[string]any{"name": "Bun", "price": "12.5"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "12.5", decode[dto.ProductResponse](t, raw).Price.String())

	resp, raw = s.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.ProductListResponse](t, raw).Items, 1)

	resp, _ = s.do(t, http.MethodDelete, "/api/products/"+bun.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(t, http.MethodDelete, "/api/products/"+bun.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Planilla ────────────────────────────────────────────────────────────────

func TestDias_EditarYAutosave(t *testing.T) {
	s := newServer(t, "")
	_, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bun", "price": "10"}, "")
	bun := decode[dto.ProductResponse](t, raw)

	resp, raw := s.do(t, http.MethodGet, "/api/days/limits", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	limits := decode[dto.LimitsResponse](t, raw)
	assert.Equal(t, dto.LimitsResponse{Today: "2026-10-19", Min: "2026-07-21", Max: "2026-10-20", HistoryDays: 90, EditableRangeDays: 1}, limits)

	path := "/api/days/2026-10-19/products/" + bun.ID
	resp, raw = s.do(t, http.MethodPut, path, map[string]any{"batches": []int{10}, "remaining_qty": 15}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	edit := decode[dto.EditRowResponse](t, raw)
	assert.True(t, edit.WasClamped)
	assert.Equal(t, 10, edit.Row.RemainingQty)
	assert.Equal(t, []int{10, 0, 0, 0, 0, 0}, edit.Row.Batches)
	assert.Equal(t, int64(500), edit.SaveAfter)

	resp, raw = s.do(t, http.MethodPut, path, map[string]any{"batches": []int{10}, "remaining_qty": 3}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edit = decode[dto.EditRowResponse](t, raw)
	assert.Equal(t, 7, edit.Row.SoldQty)
	assert.Equal(t, "70", edit.Totals.Revenue.String())

	s.clock.Advance(time.Second)
	recs, err := s.store.ListByDate(context.Background(), "2026-10-19")
	require.NoError(t, err)
	require.Contains(t, recs, bun.ID)
	assert.Equal(t, 3, recs[bun.ID].RemainingQty)

	resp, raw = s.do(t, http.MethodGet, "/api/days/2026-10-19", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sheet := decode[dto.SheetResponse](t, raw)
	assert.True(t, sheet.Editable)
	require.Len(t, sheet.Rows, 1)
	assert.True(t, sheet.Rows[0].Persisted)
	assert.Equal(t, 7, sheet.Totals.TotalSold)

	resp, raw = s.do(t, http.MethodGet, "/api/notifications?after=0", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notices := decode[dto.NotificationListResponse](t, raw)
	require.Len(t, notices.Items, 2)
	assert.Equal(t, "warning", string(notices.Items[0].Level))
	assert.Equal(t, daily.MsgSaved, notices.Items[1].Message)
}

func TestDias_Rechazos(t *testing.T) {
	s := newServer(t, "")
	_, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bun", "price": "10"}, "")
	bun := decode[dto.ProductResponse](t, raw)

	resp, raw := s.do(t, http.MethodPut, "/api/days/2026-10-10/products/"+bun.ID, map[string]any{"batches": []int{1}}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DATE_NOT_EDITABLE", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = s.do(t, http.MethodGet, "/api/days/2020-01-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DATE_OUT_OF_RANGE", decode[dto.ErrorResponse](t, raw).Code)

	resp, _ = s.do(t, http.MethodPut, "/api/days/2026-10-19/products/"+bun.ID, map[string]any{"batches": []int{1, 2, 3, 4, 5, 6, 7}}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/api/days/2026-10-19/products/nope", map[string]any{"batches": []int{1}}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Reporte ─────────────────────────────────────────────────────────────────

func TestReporte_DescargaYLimite(t *testing.T) {
	s := newServer(t, "")

	resp, raw := s.do(t, http.MethodGet, "/api/days/2026-10-19/report", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_DATA", decode[dto.ErrorResponse](t, raw).Code)

	s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bun", "price": "10"}, "")
	resp, raw = s.do(t, http.MethodGet, "/api/days/2026-10-19/report", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bakery_report_2026-10-19.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, _ = s.do(t, http.MethodGet, "/api/days/2026-10-19/report", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

// ─── Auth y salud ────────────────────────────────────────────────────────────

func TestEscrituraRequiereToken(t *testing.T) {
	s := newServer(t, testJWTSecret)

	resp, _ := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bun", "price": "10"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"password": "mal"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"password": "polina"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[dto.LoginResponse](t, raw).Token

	resp, _ = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bun", "price": "10"}, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "las lecturas son públicas")
}

// TestInicializando_Responde503 antes del primer intento de carga no se sirve un catálogo vacío.
func TestInicializando_Responde503(t *testing.T) {
	s := newServer(t, "")
	s.ready.Set(apphttp.ErrInitializing)

	resp, raw := s.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "INITIALIZING", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "initializing", decode[dto.HealthResponse](t, raw).Status)

	assert.ErrorIs(t, apphttp.NewReadiness("memory").Err(), apphttp.ErrInitializing)
}

// TestInitFallido_Responde503 un fallo de carga inicial no se presenta como catálogo vacío.
func TestInitFallido_Responde503(t *testing.T) {
	s := newServer(t, "")
	s.ready.Set(errors.New("connection refused"))

	resp, raw := s.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "INIT_FAILED", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "init_failed", decode[dto.HealthResponse](t, raw).Status)

	s.ready.Set(nil)
	resp, _ = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
