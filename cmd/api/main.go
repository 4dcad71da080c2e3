package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/infrastructure/bcv"
	"github.com/smartkubik/facturacion-api/internal/infrastructure/fiscal"
	"github.com/smartkubik/facturacion-api/internal/infrastructure/imprenta"
	infrapdf "github.com/smartkubik/facturacion-api/internal/infrastructure/pdf"
	"github.com/smartkubik/facturacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/smartkubik/facturacion-api/internal/interfaces/http"
	"github.com/smartkubik/facturacion-api/pkg/config"
	"github.com/smartkubik/facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	seriesRepo := postgres.NewFiscalSeriesRepository(pool)
	docRepo := postgres.NewFiscalDocumentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Reglas de impuesto del país del tenant (solo VE implementado).
	taxes, err := fiscal.ProviderFor(cfg.Fiscal)
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor fiscal")
	}

	// Fuente de tasa BCV: cliente real con caché TTL, o tasa estática en dev.
	var rates billing.ExchangeRateSource
	if cfg.Exchange.BCVURL != "" {
		rates = bcv.NewClient(cfg.Exchange.BCVURL, cfg.Exchange.RefreshMinutes, log)
	} else {
		staticRate, err := decimal.NewFromString(cfg.Exchange.StaticRate)
		if err != nil {
			log.Fatal().Err(err).Str("rate", cfg.Exchange.StaticRate).Msg("tasa estática inválida")
		}
		rates = bcv.StaticSource{Rate: staticRate}
		log.Warn().Str("rate", cfg.Exchange.StaticRate).Msg("usando tasa de cambio estática")
	}

	// Imprenta digital: opcional, sin URL los documentos se emiten sin número
	// de control.
	var control billing.ControlNumberProvider
	if cfg.Imprenta.URL != "" {
		control = imprenta.NewClient(cfg.Imprenta.URL, cfg.Imprenta.APIKey)
	} else {
		log.Warn().Msg("imprenta digital no configurada: documentos sin número de control")
	}

	cartUC := billing.NewCartUseCase(catalogRepo, taxes, rates, cfg.Exchange.QuoteCurrency)
	docUC := billing.NewIssueDocumentUseCase(txRunner, docRepo, seriesRepo, taxes, rates, control, log, cfg.Exchange.QuoteCurrency)
	seriesUC := billing.NewSeriesUseCase(seriesRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(docUC, pdfGenerator, billing.IssuerInfo{
		Name:    cfg.Fiscal.IssuerName,
		RIF:     cfg.Fiscal.IssuerRIF,
		Address: cfg.Fiscal.IssuerAddress,
		Phone:   cfg.Fiscal.IssuerPhone,
		Email:   cfg.Fiscal.IssuerEmail,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		CartUC:    cartUC,
		DocUC:     docUC,
		PDFUC:     pdfUC,
		SeriesUC:  seriesUC,
		JWTSecret: cfg.JWT.Secret,
	})

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
