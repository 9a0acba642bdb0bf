package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/gudang-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gudang-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gudang-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/gudang-api/internal/interfaces/http"
	"github.com/jhoicas/gudang-api/pkg/config"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// maxImportRows límite de filas por hoja importada.
const maxImportRows = 10000

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
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := mg.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := mg.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché del resumen: opcional, sin Redis se consulta siempre la base.
	var summaryCache inventory.SummaryCache = inventory.NoopSummaryCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, resumen sin caché")
		} else {
			defer rdb.Close()
			summaryCache = cache.NewSummaryCache(rdb, cfg.Redis.SummaryCacheTTL)
		}
	}

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockSvc := inventory.NewStockService(txRunner, summaryCache, log, cfg.Stock.MaxRetries)
	reconciler := inventory.NewReconciler(stockSvc, itemRepo, log)
	importer := inventory.NewImportService(spreadsheet.NewReader(maxImportRows), reconciler, log)
	queries := inventory.NewQueryService(itemRepo, movementRepo, summaryCache, infrapdf.NewStockSummaryPDF(cfg.App.Name), log)
	itemUC := usecase.NewItemUseCase(txRunner, summaryCache, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gudang API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		ItemUC:     itemUC,
		Stock:      stockSvc,
		Queries:    queries,
		Reconciler: reconciler,
		Importer:   importer,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		Log:        log,
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
