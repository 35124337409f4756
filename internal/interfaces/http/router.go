package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/automation"
	"github.com/jhoicas/SellerHub-api/internal/application/channelsync"
	"github.com/jhoicas/SellerHub-api/internal/application/competition"
	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/application/usecase"
	"github.com/jhoicas/SellerHub-api/internal/infrastructure/mercadolibre"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *stock.LedgerUseCase
	SyncUC     *channelsync.SyncUseCase
	SignalsUC  *competition.SignalsUseCase
	AnalysisUC *usecase.BuyBoxAnalysisUseCase
	RulesUC    *automation.RulesUseCase
	Engine     *automation.Engine
	Tokens     *mercadolibre.DBTokenProvider
	JWTSecret  string
}

// Router registra las rutas de la API. Todo el API es protegido: no hay
// emisión de tokens aquí (la identidad vive en otro servicio).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock ledger
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/below-minimum", stockHandler.ListBelowMinimum)
	stockGroup.Put("/minimum", stockHandler.SetMinimum)
	stockGroup.Get("/:product_id", stockHandler.GetStock)
	stockGroup.Get("/:product_id/movements", stockHandler.ListMovements)
	stockGroup.Get("/:product_id/verify", stockHandler.VerifyProjection)

	// Channel sync
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncUC)
	syncGroup.Post("/links", syncHandler.LinkListing)
	syncGroup.Delete("/links/:listing_id", syncHandler.UnlinkListing)
	syncGroup.Get("/links/:listing_id/pull", syncHandler.PullListing)
	syncGroup.Get("/products/:product_id/links", syncHandler.ListLinks)
	syncGroup.Post("/products/:product_id/push", syncHandler.PushProduct)
	syncGroup.Post("/import", syncHandler.ImportAll)

	// Competitive signals
	compGroup := protected.Group("/competition")
	compHandler := NewCompetitionHandler(deps.SignalsUC, deps.AnalysisUC)
	compGroup.Get("/catalog/:catalog_product_id/competitors", compHandler.GetCompetitors)
	compGroup.Get("/:listing_id/price-to-win", compHandler.GetPriceToWin)
	compGroup.Get("/:listing_id/analysis", compHandler.AnalyzeListing)

	// Automation rules
	autoGroup := protected.Group("/automation")
	autoHandler := NewAutomationHandler(deps.RulesUC, deps.Engine)
	autoGroup.Post("/rules", autoHandler.CreateRule)
	autoGroup.Get("/rules", autoHandler.ListRules)
	autoGroup.Get("/rules/:id", autoHandler.GetRule)
	autoGroup.Put("/rules/:id/active", autoHandler.SetRuleActive)
	autoGroup.Delete("/rules/:id", autoHandler.DeleteRule)
	autoGroup.Get("/rules/:id/logs", autoHandler.ListRuleLogs)
	autoGroup.Post("/rules/:id/execute", autoHandler.ExecuteRule)
	autoGroup.Post("/execute", autoHandler.ExecuteAll)

	// Channel credentials
	credGroup := protected.Group("/credentials")
	credHandler := NewCredentialsHandler(deps.Tokens)
	credGroup.Put("/mercadolibre", credHandler.SaveCredential)
}
