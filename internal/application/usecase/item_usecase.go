package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// initialStockNote nota del movimiento de entrada con que nace un artículo con stock.
const initialStockNote = "stock inicial"

// ItemUseCase casos de uso del catálogo de artículos. Quantity solo cambia vía movimientos.
type ItemUseCase struct {
	txRunner inventory.TxRunner
	cache    inventory.SummaryCache
	log      *logger.Logger
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso. cache puede ser nil.
func NewItemUseCase(txRunner inventory.TxRunner, cache inventory.SummaryCache, log *logger.Logger) *ItemUseCase {
	if cache == nil {
		cache = inventory.NoopSummaryCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{txRunner: txRunner, cache: cache, log: log.Component("items"), now: time.Now}
}

// BulkCreate crea varios artículos en una sola transacción: o se crean todos o ninguno.
// Los artículos con cantidad inicial > 0 reciben su movimiento "in" para que el historial cuadre.
func (uc *ItemUseCase) BulkCreate(ctx context.Context, actor string, in []dto.NewItemRequest) (*dto.BulkCreateResponse, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no se recibieron artículos", domain.ErrEmptyInput)
	}
	seen := make(map[string]int, len(in))
	for i, req := range in {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: artículo %d sin nombre", domain.ErrInvalidInput, i+1)
		}
		if req.Quantity < 0 || req.MinQuantity < 0 {
			return nil, fmt.Errorf("%w: artículo %q", domain.ErrInvalidQuantity, name)
		}
		key := entity.NormalizeName(name)
		if j, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q repetido en las posiciones %d y %d", domain.ErrDuplicate, name, j+1, i+1)
		}
		seen[key] = i
	}

	created := make([]*entity.Item, 0, len(in))
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.StockMovementRepository) error {
		created = created[:0]
		for _, req := range in {
			it := newItem(req)
			existing, err := items.GetByName(ctx, it.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: ya existe %q", domain.ErrDuplicate, it.Name)
			}
			if err := items.Create(ctx, it); err != nil {
				return err
			}
			if it.Quantity > 0 {
				if err := movements.Append(ctx, &entity.StockMovement{
					ItemID:    it.ID,
					ItemName:  it.Name,
					Type:      entity.MovementTypeIn,
					Quantity:  it.Quantity,
					Unit:      it.Unit,
					Notes:     initialStockNote,
					CreatedBy: actor,
					CreatedAt: uc.now(),
				}); err != nil {
					return err
				}
			}
			created = append(created, it)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("crear artículos: %w", err)
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Error().Err(err).Msg("invalidar caché del resumen")
	}
	uc.log.Info().Int("count", len(created)).Msg("artículos creados")

	out := &dto.BulkCreateResponse{Count: len(created), Items: make([]dto.ItemResponse, 0, len(created))}
	for _, it := range created {
		out.Items = append(out.Items, dto.ToItemResponse(it))
	}
	return out, nil
}

func newItem(req dto.NewItemRequest) *entity.Item {
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	return &entity.Item{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        unit,
	}
}
