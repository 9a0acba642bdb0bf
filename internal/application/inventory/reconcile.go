package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	dominv "github.com/jhoicas/gudang-api/internal/domain/inventory"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ReferencePrefix prefijo de la referencia de los movimientos creados por una conciliación.
const ReferencePrefix = "reconcile:"

// Reconciler aplica lotes de cantidades finales (conciliación masiva / stock opname).
// Las filas se procesan en orden y de forma independiente: el fallo de una no afecta a las demás.
type Reconciler struct {
	stock      *StockService
	items      repository.ItemRepository
	log        *logger.Logger
	newBatchID func() string
}

// NewReconciler construye el motor de conciliación sobre el servicio de stock.
func NewReconciler(stock *StockService, items repository.ItemRepository, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{
		stock:      stock,
		items:      items,
		log:        log.Component("reconcile"),
		newBatchID: func() string { return uuid.New().String() },
	}
}

// ApplyBulkFinalQuantities lleva cada artículo a la cantidad final indicada.
// Siempre devuelve un resultado con len(Results)+len(Errors) == len(rows).
func (r *Reconciler) ApplyBulkFinalQuantities(ctx context.Context, rows []dto.BulkStockUpdateRow, actor string) *dto.BulkUpdateResult {
	b := r.newBatch(len(rows))
	for _, row := range rows {
		r.applyRow(ctx, b, row, actor)
	}
	return r.finish(b)
}

// ApplyRecords normaliza registros crudos (payload JSON) y los concilia.
// A diferencia de la importación de hojas, un registro inservible se reporta como error, no se omite.
func (r *Reconciler) ApplyRecords(ctx context.Context, records []map[string]any, actor string) *dto.BulkUpdateResult {
	b := r.newBatch(len(records))
	for _, rec := range records {
		row, err := NormalizeRecord(rec)
		if err != nil {
			b.fail(row, normalizeFailure(err))
			continue
		}
		r.applyRow(ctx, b, row, actor)
	}
	return r.finish(b)
}

type batch struct {
	ref    string
	result *dto.BulkUpdateResult
}

func (b *batch) fail(row dto.BulkStockUpdateRow, e dto.BulkUpdateError) {
	e.Item = row
	b.result.Errors = append(b.result.Errors, e)
}

func (r *Reconciler) newBatch(n int) *batch {
	return &batch{
		ref: ReferencePrefix + r.newBatchID(),
		result: &dto.BulkUpdateResult{
			Success: true,
			Results: make([]dto.BulkUpdateItemResult, 0, n),
			Errors:  make([]dto.BulkUpdateError, 0),
		},
	}
}

func (r *Reconciler) finish(b *batch) *dto.BulkUpdateResult {
	b.result.UpdatedCount = len(b.result.Results)
	b.result.Reference = b.ref
	r.log.Info().
		Str("reference", b.ref).
		Int("updated", len(b.result.Results)).
		Int("errors", len(b.result.Errors)).
		Msg("conciliación aplicada")
	return b.result
}

func (r *Reconciler) applyRow(ctx context.Context, b *batch, row dto.BulkStockUpdateRow, actor string) {
	if err := ctx.Err(); err != nil {
		b.fail(row, dto.BulkUpdateError{Code: dto.RowErrCancelled, Error: "procesamiento cancelado"})
		return
	}
	item, err := r.resolve(ctx, row)
	if err != nil {
		b.fail(row, rowFailure(err))
		return
	}
	if row.Quantity < 0 {
		b.fail(row, rowFailure(domain.ErrInvalidQuantity))
		return
	}
	target := row.Quantity
	rec, err := r.stock.mutate(ctx, StockOperation{
		ItemID:    item.ID,
		Actor:     actor,
		Reference: b.ref,
		describe:  reconcileNote,
	}, func(current *entity.Item) (dominv.Adjustment, error) {
		return dominv.Reconcile(current.Quantity, target)
	})
	if err != nil {
		b.fail(row, rowFailure(err))
		return
	}
	b.result.Results = append(b.result.Results, dto.BulkUpdateItemResult{
		ID:          rec.Item.ID,
		Name:        rec.Item.Name,
		OldQuantity: rec.OldQuantity,
		NewQuantity: rec.NewQuantity,
	})
}

// resolve busca por id si viene distinto de cero (un id negativo no existe); si no, por nombre recortado.
func (r *Reconciler) resolve(ctx context.Context, row dto.BulkStockUpdateRow) (*entity.Item, error) {
	var (
		item *entity.Item
		err  error
	)
	switch {
	case row.ID != nil && *row.ID < 0:
		return nil, domain.ErrItemNotFound
	case row.ID != nil && *row.ID > 0:
		item, err = r.items.GetByID(ctx, *row.ID)
	case strings.TrimSpace(row.Name) != "":
		item, err = r.items.GetByName(ctx, strings.TrimSpace(row.Name))
	default:
		return nil, fmt.Errorf("%w: se requiere id o name", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func reconcileNote(old, next int64) string {
	return fmt.Sprintf("conciliación: %d -> %d", old, next)
}

func rowFailure(err error) dto.BulkUpdateError {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return dto.BulkUpdateError{Code: dto.RowErrItemNotFound, Error: "ItemNotFound: artículo no encontrado"}
	case errors.Is(err, domain.ErrInvalidQuantity):
		return dto.BulkUpdateError{Code: dto.RowErrInvalidQuantity, Error: "InvalidQuantity: la cantidad final debe ser un entero >= 0"}
	case errors.As(err, &insufficient):
		return dto.BulkUpdateError{Code: dto.RowErrInsufficientStock, Error: "InsufficientStock: " + insufficient.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return dto.BulkUpdateError{Code: dto.RowErrInvalidInput, Error: "InvalidInput: " + err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return dto.BulkUpdateError{Code: dto.RowErrConflict, Error: "Conflict: " + err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dto.BulkUpdateError{Code: dto.RowErrCancelled, Error: "procesamiento cancelado"}
	default:
		return dto.BulkUpdateError{Code: dto.RowErrInternal, Error: err.Error()}
	}
}

func normalizeFailure(err error) dto.BulkUpdateError {
	var re *rowError
	value := ""
	if errors.As(err, &re) {
		value = re.value
	}
	if errors.Is(err, errMissingQuantity) {
		return dto.BulkUpdateError{Code: dto.RowErrInvalidQuantity, Error: "InvalidQuantity: " + err.Error()}
	}
	e := rowFailure(err)
	e.Value = value
	return e
}
