package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// StockHandler maneja entradas, salidas y consultas de stock.
type StockHandler struct {
	stock   *inventory.StockService
	queries *inventory.QueryService
	log     *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockService, queries *inventory.QueryService, log *logger.Logger) *StockHandler {
	return &StockHandler{stock: stock, queries: queries, log: log}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockOperationRequest  true  "itemId, quantity (> 0), notes, unit"
// @Success      201   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.RecordStockInFromRequest(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con 409 si la cantidad supera el stock disponible; la cantidad no cambia.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockOperationRequest  true  "itemId, quantity (> 0), notes, unit"
// @Success      201   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.RecordStockOutFromRequest(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AvailableItems godoc
// @Summary      Artículos con su cantidad actual
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.DataResponse[[]dto.AvailableItemResponse]
// @Router       /stock/available-items [get]
func (h *StockHandler) AvailableItems(c *fiber.Ctx) error {
	items, err := h.queries.ListAvailableItems(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DataResponse[[]dto.AvailableItemResponse]{Data: items})
}

// GetItem godoc
// @Summary      Stock de un artículo
// @Tags         stock
// @Produce      json
// @Param        id   path      int  true  "ID del artículo"
// @Success      200  {object}  dto.DataResponse[dto.ItemResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock/item/{id} [get]
func (h *StockHandler) GetItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return writeError(c, h.log, domain.ErrItemNotFound)
	}
	item, err := h.queries.GetItem(c.Context(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DataResponse[*dto.ItemResponse]{Data: item})
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Produce      json
// @Param        itemId  query     int     false  "filtrar por artículo"
// @Param        type    query     string  false  "in | out"
// @Param        limit   query     int     false  "por defecto 50, máximo 500"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.DataResponse[[]dto.StockMovementResponse]
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /stock/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	var q dto.StockHistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return validationFailed(c, err)
	}
	list, err := h.queries.History(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DataResponse[[]dto.StockMovementResponse]{Data: list})
}

// Summary godoc
// @Summary      Resumen de entradas y salidas por artículo
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.DataResponse[[]dto.StockSummaryResponse]
// @Router       /stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	list, err := h.queries.Summary(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DataResponse[[]dto.StockSummaryResponse]{Data: list})
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Artículos en o bajo su mínimo con la cantidad sugerida para llegar a mínimo * 1.5.
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.DataResponse[[]dto.ReplenishmentSuggestionResponse]
// @Router       /stock/replenishment [get]
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.queries.Replenishment(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DataResponse[[]dto.ReplenishmentSuggestionResponse]{Data: list})
}

// SummaryPDF godoc
// @Summary      Resumen de stock en PDF
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /stock/summary/pdf [get]
func (h *StockHandler) SummaryPDF(c *fiber.Ctx) error {
	doc, err := h.queries.SummaryPDF(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen-stock.pdf"`)
	return c.Send(doc)
}
