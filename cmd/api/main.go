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

	"github.com/jhoicas/SellerHub-api/internal/application/automation"
	"github.com/jhoicas/SellerHub-api/internal/application/channelsync"
	"github.com/jhoicas/SellerHub-api/internal/application/competition"
	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/application/usecase"
	infraai "github.com/jhoicas/SellerHub-api/internal/infrastructure/ai"
	"github.com/jhoicas/SellerHub-api/internal/infrastructure/mercadolibre"
	"github.com/jhoicas/SellerHub-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/SellerHub-api/internal/interfaces/http"
	"github.com/jhoicas/SellerHub-api/pkg/config"
	"github.com/jhoicas/SellerHub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
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

	// Repositorios sobre el pool (las escrituras del libro van vía TxRunner)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	recordRepo := postgres.NewStockRecordRepository(pool)
	linkRepo := postgres.NewListingLinkRepository(pool)
	ruleRepo := postgres.NewAutomationRuleRepository(pool)
	logRepo := postgres.NewAutomationLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Adaptadores externos
	mlClient := mercadolibre.NewClient(cfg.ML.BaseURL, time.Duration(cfg.ML.TimeoutSeconds)*time.Second, log)
	tokenProvider := mercadolibre.NewDBTokenProvider(pool)
	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)

	// Casos de uso
	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := stock.NewLedgerUseCase(txRunner, productRepo, movementRepo, recordRepo)
	syncUC := channelsync.NewSyncUseCase(linkRepo, productRepo, ledgerUC, mlClient, tokenProvider, log)
	signalsUC := competition.NewSignalsUseCase(linkRepo, mlClient, tokenProvider)
	analysisUC := usecase.NewBuyBoxAnalysisUseCase(signalsUC, anthropicSvc, log)
	rulesUC := automation.NewRulesUseCase(ruleRepo, logRepo)
	engine := automation.NewEngine(ruleRepo, logRepo, linkRepo, ledgerUC, syncUC, signalsUC, mlClient, tokenProvider, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SellerHub API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		LedgerUC:   ledgerUC,
		SyncUC:     syncUC,
		SignalsUC:  signalsUC,
		AnalysisUC: analysisUC,
		RulesUC:    rulesUC,
		Engine:     engine,
		Tokens:     tokenProvider,
		JWTSecret:  cfg.JWT.Secret,
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
