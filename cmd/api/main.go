package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/invoice-builder/internal/bootstrap"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/invoice-builder/internal/interfaces/http"
	"github.com/jhoicas/invoice-builder/pkg/config"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

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
		Str("engine", cfg.Render.Engine).
		Msg("iniciando aplicación")

	m := metrics.New()
	invoiceUC := bootstrap.NewUseCase(cfg, "", m, log)

	ctx := context.Background()
	archive, err := bootstrap.ArchiveDeliverer(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar almacenamiento de archivo")
	}
	if archive == nil {
		log.Warn().Msg("S3_BUCKET vacío: /api/invoices/archive responderá 501")
	}
	if !cfg.Auth.Enabled() {
		log.Warn().Msg("AUTH_JWT_SECRET vacío: API sin autenticación")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		BodyLimitKB: cfg.HTTP.BodyLimitKB,
		SwaggerFile: "./docs/swagger.json",
	}, httpRouter.RouterDeps{
		Invoices:  invoiceUC,
		Archive:   archive,
		JWTSecret: cfg.Auth.JWTSecret,
		JWTIssuer: cfg.Auth.Issuer,
	}, m, log)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
