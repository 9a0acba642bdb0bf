package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	dominv "github.com/jhoicas/gudang-api/internal/domain/inventory"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// errStaleQuantity la cantidad cambió entre la lectura y el compare-and-set; se reintenta.
var errStaleQuantity = errors.New("cantidad modificada por otro escritor")

// StockOperation entrada de una entrada o salida de stock.
type StockOperation struct {
	ItemID    int64
	Quantity  int64
	Notes     string
	Unit      string // vacío = unidad del artículo
	Actor     string
	Reference string

	// describe genera las notas a partir de la cantidad previa y la final; si es nil se usa Notes.
	describe func(old, next int64) string
}

// MovementRecord resultado de una operación de stock.
// Movement es nil cuando la operación no cambió la cantidad (conciliación sin delta).
type MovementRecord struct {
	Movement    *entity.StockMovement
	Item        entity.Item // estado tras la operación
	OldQuantity int64
	NewQuantity int64
}

// StockService registra entradas y salidas de stock.
// Cada cambio lee el artículo, valida, hace compare-and-set de la cantidad y anexa el movimiento
// en una misma transacción; si otro escritor se adelantó, repite todo hasta maxRetries veces.
type StockService struct {
	txRunner   TxRunner
	cache      SummaryCache
	log        *logger.Logger
	maxRetries int
	now        func() time.Time
}

// NewStockService construye el servicio. cache puede ser nil.
func NewStockService(txRunner TxRunner, cache SummaryCache, log *logger.Logger, maxRetries int) *StockService {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &StockService{
		txRunner:   txRunner,
		cache:      cache,
		log:        log.Component("stock"),
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// RecordStockIn suma op.Quantity al artículo y registra un movimiento "in".
func (s *StockService) RecordStockIn(ctx context.Context, op StockOperation) (*MovementRecord, error) {
	return s.record(ctx, entity.MovementTypeIn, op)
}

// RecordStockOut resta op.Quantity al artículo y registra un movimiento "out".
// Si no hay stock suficiente devuelve *domain.InsufficientStockError y la cantidad no cambia.
func (s *StockService) RecordStockOut(ctx context.Context, op StockOperation) (*MovementRecord, error) {
	return s.record(ctx, entity.MovementTypeOut, op)
}

func (s *StockService) record(ctx context.Context, movType string, op StockOperation) (*MovementRecord, error) {
	if op.ItemID <= 0 {
		return nil, domain.ErrItemNotFound
	}
	if op.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, op, func(item *entity.Item) (dominv.Adjustment, error) {
		return dominv.Apply(item.ID, item.Quantity, movType, op.Quantity)
	})
}

// mutate aplica plan al artículo op.ItemID con concurrencia optimista.
func (s *StockService) mutate(
	ctx context.Context,
	op StockOperation,
	plan func(item *entity.Item) (dominv.Adjustment, error),
) (*MovementRecord, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var rec *MovementRecord
		err := s.txRunner.Run(ctx, func(
			items repository.ItemRepository,
			movements repository.StockMovementRepository,
		) error {
			item, err := items.GetByID(ctx, op.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrItemNotFound
			}
			adj, err := plan(item)
			if err != nil {
				return err
			}
			if adj.IsNoop() {
				rec = &MovementRecord{Item: *item, OldQuantity: adj.Old, NewQuantity: adj.New}
				return nil
			}
			ok, err := items.CompareAndSetQuantity(ctx, item.ID, adj.Old, adj.New)
			if err != nil {
				return err
			}
			if !ok {
				return errStaleQuantity
			}
			notes := op.Notes
			if op.describe != nil {
				notes = op.describe(adj.Old, adj.New)
			}
			unit := op.Unit
			if unit == "" {
				unit = item.Unit
			}
			mov := &entity.StockMovement{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Type:      adj.Type,
				Quantity:  adj.Quantity,
				Unit:      unit,
				Notes:     notes,
				Reference: op.Reference,
				CreatedBy: op.Actor,
				CreatedAt: s.now(),
			}
			if err := movements.Append(ctx, mov); err != nil {
				return err
			}
			after := *item
			after.Quantity = adj.New
			rec = &MovementRecord{Movement: mov, Item: after, OldQuantity: adj.Old, NewQuantity: adj.New}
			return nil
		})
		if errors.Is(err, errStaleQuantity) {
			s.log.Warn().Int64("item_id", op.ItemID).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec.Movement != nil {
			s.log.Debug().
				Int64("item_id", rec.Item.ID).
				Str("type", rec.Movement.Type).
				Int64("quantity", rec.Movement.Quantity).
				Int64("old", rec.OldQuantity).
				Int64("new", rec.NewQuantity).
				Msg("movimiento registrado")
			s.invalidateSummary(ctx)
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%w: artículo %d modificado concurrentemente", domain.ErrConflict, op.ItemID)
}

func (s *StockService) invalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Error().Err(err).Msg("invalidar caché del resumen")
	}
}
