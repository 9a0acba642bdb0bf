package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// QueryService consultas de solo lectura sobre stock e historial.
type QueryService struct {
	items     repository.ItemRepository
	movements repository.StockMovementRepository
	cache     SummaryCache
	renderer  SummaryReportRenderer
	log       *logger.Logger
	now       func() time.Time
}

// NewQueryService construye el servicio de consultas. cache y renderer pueden ser nil.
func NewQueryService(
	items repository.ItemRepository,
	movements repository.StockMovementRepository,
	cache SummaryCache,
	renderer SummaryReportRenderer,
	log *logger.Logger,
) *QueryService {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QueryService{
		items:     items,
		movements: movements,
		cache:     cache,
		renderer:  renderer,
		log:       log.Component("stock-query"),
		now:       time.Now,
	}
}

// ListAvailableItems lista los artículos con su cantidad actual y estado derivado.
func (s *QueryService) ListAvailableItems(ctx context.Context) ([]dto.AvailableItemResponse, error) {
	items, err := s.items.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar artículos: %w", err)
	}
	out := make([]dto.AvailableItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.AvailableItemResponse{
			ID:              it.ID,
			Name:            it.Name,
			Description:     it.Description,
			Category:        it.Category,
			CurrentQuantity: it.Quantity,
			MinQuantity:     it.MinQuantity,
			Unit:            it.Unit,
			Status:          it.Status(),
		})
	}
	return out, nil
}

// GetItem devuelve un artículo o domain.ErrItemNotFound.
func (s *QueryService) GetItem(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	if id <= 0 {
		return nil, domain.ErrItemNotFound
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener artículo: %w", err)
	}
	if it == nil {
		return nil, domain.ErrItemNotFound
	}
	resp := dto.ToItemResponse(it)
	return &resp, nil
}

// History lista movimientos, más recientes primero.
func (s *QueryService) History(ctx context.Context, q dto.StockHistoryQuery) ([]dto.StockMovementResponse, error) {
	if q.Type != "" && !entity.IsValidMovementType(q.Type) {
		return nil, fmt.Errorf("%w: type debe ser in u out", domain.ErrInvalidInput)
	}
	if q.ItemID < 0 {
		return nil, fmt.Errorf("%w: itemId inválido", domain.ErrInvalidInput)
	}
	q.DefaultPage(defaultHistoryLimit)
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	movs, err := s.movements.List(ctx, entity.MovementFilter{
		ItemID: q.ItemID,
		Type:   q.Type,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar historial: %w", err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// Summary totales por artículo; usa la caché si está disponible.
func (s *QueryService) Summary(ctx context.Context) ([]dto.StockSummaryResponse, error) {
	rows, err := s.summaryRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockSummaryResponse{
			ItemID:            r.ItemID,
			ItemName:          r.ItemName,
			Unit:              r.Unit,
			TotalIn:           r.TotalIn,
			TotalOut:          r.TotalOut,
			TotalTransactions: r.TotalTransactions,
			LastTransaction:   r.LastTransaction,
		})
	}
	return out, nil
}

// SummaryPDF genera el PDF del resumen de stock.
func (s *QueryService) SummaryPDF(ctx context.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	rows, err := s.summaryRows(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderStockSummary(ctx, rows, s.now())
}

func (s *QueryService) summaryRows(ctx context.Context) ([]*entity.StockSummary, error) {
	rows, gen, hit, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("leer caché del resumen")
	}
	if hit {
		return rows, nil
	}
	rows, err = s.movements.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("resumen de stock: %w", err)
	}
	if err := s.cache.Set(ctx, gen, rows); err != nil {
		s.log.Error().Err(err).Msg("guardar caché del resumen")
	}
	return rows, nil
}
