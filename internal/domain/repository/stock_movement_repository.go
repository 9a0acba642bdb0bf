package repository

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// StockMovementRepository puerto del historial de movimientos (solo inserción).
type StockMovementRepository interface {
	// Append persiste el movimiento y completa ID/CreatedAt.
	Append(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error)
	Summary(ctx context.Context) ([]*entity.StockSummary, error)
}
