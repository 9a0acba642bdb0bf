package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName    string
	ItemUC     *usecase.ItemUseCase
	Stock      *inventory.StockService
	Queries    *inventory.QueryService
	Reconciler *inventory.Reconciler
	Importer   *inventory.ImportService
	JWTSecret  string
	JWTIssuer  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// El token solo identifica al operador (createdBy); las rutas no exigen autenticación.
	api := app.Group("/", ActorMiddleware(deps.JWTSecret, deps.JWTIssuer, log))

	itemHandler := NewItemHandler(deps.ItemUC, deps.Queries, deps.Reconciler, deps.Importer, log)
	items := api.Group("/items")
	items.Post("/bulk", itemHandler.BulkCreate)
	items.Post("/bulk-update-stock", itemHandler.BulkUpdateStock)
	items.Post("/import-stock", itemHandler.ImportStock)
	items.Get("/:id", itemHandler.GetByID)

	stockHandler := NewStockHandler(deps.Stock, deps.Queries, log)
	stock := api.Group("/stock")
	stock.Post("/in", stockHandler.StockIn)
	stock.Post("/out", stockHandler.StockOut)
	stock.Get("/available-items", stockHandler.AvailableItems)
	stock.Get("/item/:id", stockHandler.GetItem)
	stock.Get("/history", stockHandler.History)
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/summary/pdf", stockHandler.SummaryPDF)
	stock.Get("/replenishment", stockHandler.Replenishment)
}
