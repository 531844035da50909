package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jhoicas/bakery-inventory/docs"
	"github.com/jhoicas/bakery-inventory/internal/application/auth"
	"github.com/jhoicas/bakery-inventory/internal/application/autosave"
	"github.com/jhoicas/bakery-inventory/internal/application/catalog"
	"github.com/jhoicas/bakery-inventory/internal/application/daily"
	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/fonts"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/bakery-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/scheduler"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/bakery-inventory/internal/interfaces/http"
	"github.com/jhoicas/bakery-inventory/pkg/config"
	"github.com/jhoicas/bakery-inventory/pkg/logger"
)

// @title        Bakery Inventory API
// @version      1.0
// @description  Inventario diario de una panadería: catálogo, tandas, sobrantes y reporte PDF.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization

// stores puertos de persistencia del driver elegido.
type stores struct {
	products repository.ProductRepository
	records  repository.DailyRecordRepository
	tx       repository.TxRunner
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			products: postgres.NewProductRepository(pool),
			records:  postgres.NewDailyRecordRepository(pool),
			tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	case config.DriverMongo:
		db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Transactions)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: db.Products(),
			records:  db.Records(),
			tx:       db,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = db.Close(closeCtx)
			},
		}, nil
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: st.Products(),
			records:  st.Records(),
			tx:       st,
			close:    func() { _ = st.Close() },
		}, nil
	default:
		st := memory.NewStore()
		return &stores{products: st, records: st, tx: st, close: func() {}}, nil
	}
}

// waitReady intenta la carga inicial del catálogo hasta que funcione o se cancele ctx.
// Mientras falle la API responde 503 INIT_FAILED.
func waitReady(ctx context.Context, products repository.ProductRepository, ready *httpRouter.Readiness, log *logger.Logger) {
	backoff := time.Second
	for {
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := products.List(loadCtx)
		cancel()
		ready.Set(err)
		if err == nil {
			log.Info().Msg("carga inicial completa")
			return
		}
		log.Error().Err(err).Dur("retry_in", backoff).Msg("carga inicial fallida")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.Bakery.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Bakery.Timezone).Msg("zona horaria inválida")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancelConnect := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStores(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	clock := autosave.SystemClock{Location: loc}
	dailySvc := daily.NewService(st.products, st.records, clock, nil, log.Component("daily"), daily.Options{
		Policy:       inventory.Policy{HistoryDays: cfg.Bakery.HistoryDays, EditableRangeDays: cfg.Bakery.EditableRangeDays},
		Location:     loc,
		Delay:        cfg.Autosave.Debounce(),
		WriteTimeout: cfg.Autosave.WriteTimeout(),
	})
	catalogUC := catalog.NewUseCase(st.products, st.tx, log.Component("catalog"), dailySvc)

	fontCache := fonts.NewCache(cfg.Report.FontURL, cfg.Report.FontCacheDir)
	renderer := infrapdf.NewMarotoReportRenderer(fontCache, log.Component("pdf"))
	reportUC := report.NewUseCase(dailySvc, renderer, report.Branding{
		Title:    cfg.Bakery.Name,
		Currency: cfg.Bakery.Currency,
	}, log.Component("report"), clock.Now)

	if cfg.JWT.Enabled() && cfg.JWT.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.JWT.AdminPasswordHash)); err != nil {
			log.Fatal().Err(err).Msg("ADMIN_PASSWORD_HASH no es un hash bcrypt")
		}
	}
	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: rutas de escritura sin autenticación")
	}
	authUC := auth.NewAuthUseCase(cfg.JWT.AdminPasswordHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	ready := httpRouter.NewReadiness(cfg.Store.Driver)
	go waitReady(ctx, st.products, ready, log)

	var archiver *scheduler.Archiver
	if cfg.Report.ArchiveCron != "" {
		archiver = scheduler.NewArchiver(cfg.Report.ArchiveCron, cfg.Report.ArchiveDir, loc, reportUC, dailySvc.Today, log.Component("archive"))
		if err := archiver.Start(); err != nil {
			log.Fatal().Err(err).Msg("programar archivo nocturno")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, cfg.HTTP.CORSOrigins)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bakery Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:         catalogUC,
		Daily:           dailySvc,
		Reports:         reportUC,
		Feed:            dailySvc.Feed(),
		AuthUC:          authUC,
		Ready:           ready,
		JWTSecret:       cfg.JWT.Secret,
		ReportPerMinute: cfg.Report.RatePerMinute,
		Log:             log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if archiver != nil {
		archiver.Stop()
	}
	if n := dailySvc.Flush(); n > 0 {
		log.Info().Int("rows", n).Msg("guardados pendientes ejecutados antes de salir")
	}

	log.Info().Msg("aplicación detenida")
}
