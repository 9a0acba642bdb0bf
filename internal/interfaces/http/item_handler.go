package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ItemHandler maneja el catálogo de artículos y las operaciones masivas de stock.
type ItemHandler struct {
	items      *usecase.ItemUseCase
	queries    *inventory.QueryService
	reconciler *inventory.Reconciler
	importer   *inventory.ImportService
	log        *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(
	items *usecase.ItemUseCase,
	queries *inventory.QueryService,
	reconciler *inventory.Reconciler,
	importer *inventory.ImportService,
	log *logger.Logger,
) *ItemHandler {
	return &ItemHandler{items: items, queries: queries, reconciler: reconciler, importer: importer, log: log}
}

// BulkCreate godoc
// @Summary      Crear artículos en lote
// @Description  Todo o nada. Los artículos con cantidad inicial > 0 reciben un movimiento de entrada.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      []dto.NewItemRequest  true  "artículos"
// @Success      201   {object}  dto.BulkCreateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /items/bulk [post]
func (h *ItemHandler) BulkCreate(c *fiber.Ctx) error {
	var in []dto.NewItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba un arreglo de artículos"})
	}
	fields := make(map[string]string)
	for i := range in {
		if err := validate.Struct(in[i]); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range verrs {
					fields[fmt.Sprintf("[%d].%s", i, fe.Field())] = fe.Tag()
				}
			}
		}
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fields})
	}
	out, err := h.items.BulkCreate(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return writeError(c, h.log, domain.ErrItemNotFound)
	}
	item, err := h.queries.GetItem(c.Context(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(item)
}

// BulkUpdateStock godoc
// @Summary      Conciliar cantidades finales
// @Description  Cada fila {id|name, quantity} fija la cantidad FINAL del artículo. Las filas son
//
//	independientes: los fallos se devuelven en errors sin afectar al resto.
//
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      []dto.BulkStockUpdateRow  true  "filas"
// @Success      200   {object}  dto.BulkUpdateResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /items/bulk-update-stock [post]
func (h *ItemHandler) BulkUpdateStock(c *fiber.Ctx) error {
	var records []map[string]any
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba un arreglo de filas {id|name, quantity}"})
	}
	if len(records) == 0 {
		return writeError(c, h.log, fmt.Errorf("%w: no se recibieron filas", domain.ErrEmptyInput))
	}
	return c.JSON(h.reconciler.ApplyRecords(c.Context(), records, GetActor(c)))
}

// ImportStock godoc
// @Summary      Importar cantidades finales desde hoja de cálculo
// @Description  Acepta .xlsx o .csv con columnas id/name y finalQuantity|final_quantity|quantity|final.
//
//	Las filas inservibles se omiten y se reportan en skipped.
//
// @Tags         items
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "hoja de cálculo"
// @Success      200   {object}  dto.StockImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /items/import-stock [post]
func (h *ItemHandler) ImportStock(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "se requiere el archivo en el campo 'file'"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()

	out, err := h.importer.ImportFinalQuantities(c.Context(), f, fh.Filename, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
