package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/bakery-inventory/internal/application/auth"
	"github.com/jhoicas/bakery-inventory/internal/application/catalog"
	"github.com/jhoicas/bakery-inventory/internal/application/daily"
	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/application/notify"
	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog         *catalog.UseCase
	Daily           *daily.Service
	Reports         *report.UseCase
	Feed            *notify.Feed
	AuthUC          *auth.AuthUseCase
	Ready           *Readiness
	JWTSecret       string
	ReportPerMinute int
	Log             zerolog.Logger
}

// NewApp crea la aplicación Fiber con recover, CORS y un ErrorHandler con cuerpo ErrorResponse.
func NewApp(name, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Ready == nil {
		deps.Ready = NewReadiness("")
		deps.Ready.Set(nil)
	}
	app.Get("/health", deps.Ready.Health)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Lecturas y escrituras requieren la carga inicial completa
	ready := api.Group("", RequireReady(deps.Ready))
	write := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(deps.JWTSecret, jwt.RoleAdmin)}

	// Catálogo
	productHandler := NewProductHandler(deps.Catalog, deps.Log)
	products := ready.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", append(write, productHandler.Create)...)
	products.Put("/:id", append(write, productHandler.Update)...)
	products.Delete("/:id", append(write, productHandler.Delete)...)

	// Planilla diaria
	dayHandler := NewDayHandler(deps.Daily, deps.Log)
	days := ready.Group("/days")
	days.Get("/limits", dayHandler.Limits)
	days.Get("/:date", dayHandler.Get)
	days.Put("/:date/products/:productId", append(write, dayHandler.EditRow)...)

	// Reporte PDF (token bucket compartido)
	perMinute := deps.ReportPerMinute
	if perMinute <= 0 {
		perMinute = 6
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	reportHandler := NewReportHandler(deps.Reports, deps.Log)
	days.Get("/:date/report", RateLimit(limiter), reportHandler.Download)

	// Avisos
	notificationHandler := NewNotificationHandler(deps.Feed)
	ready.Get("/notifications", notificationHandler.List)
}
