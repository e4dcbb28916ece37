package http

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/invoice-builder/internal/application/dto"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/metrics"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name        string
	BodyLimitKB int
	SwaggerFile string // vacío o inexistente = sin Swagger UI
}

// NewApp construye la aplicación Fiber con middlewares, health, métricas y rutas.
func NewApp(cfg AppConfig, deps RouterDeps, m *metrics.Metrics, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	bodyLimit := cfg.BodyLimitKB * 1024
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(log.Component("http")))
	if m != nil {
		app.Use(MetricsMiddleware(m))
	}
	app.Use(cors.New(cors.Config{
		ExposeHeaders: "Content-Disposition, X-Request-ID, X-Content-Digest",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Invoice Builder API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	Router(app, deps)
	return app
}

// errorHandler responde errores no manejados con el mismo cuerpo que los handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "error interno"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(code), Message: msg, RequestID: GetRequestID(c)})
}
