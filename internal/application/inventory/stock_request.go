package inventory

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// RecordStockInFromRequest adapta el request HTTP a RecordStockIn.
func (s *StockService) RecordStockInFromRequest(ctx context.Context, actor string, in dto.StockOperationRequest) (*dto.StockOperationResponse, error) {
	op, err := operationFromRequest(actor, in)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecordStockIn(ctx, op)
	if err != nil {
		return nil, err
	}
	return toOperationResponse(rec, "entrada registrada"), nil
}

// RecordStockOutFromRequest adapta el request HTTP a RecordStockOut.
func (s *StockService) RecordStockOutFromRequest(ctx context.Context, actor string, in dto.StockOperationRequest) (*dto.StockOperationResponse, error) {
	op, err := operationFromRequest(actor, in)
	if err != nil {
		return nil, err
	}
	rec, err := s.RecordStockOut(ctx, op)
	if err != nil {
		return nil, err
	}
	return toOperationResponse(rec, "salida registrada"), nil
}

func operationFromRequest(actor string, in dto.StockOperationRequest) (StockOperation, error) {
	qty, err := positiveQuantity(in.Quantity)
	if err != nil {
		return StockOperation{}, err
	}
	return StockOperation{
		ItemID:   in.ItemID,
		Quantity: qty,
		Notes:    strings.TrimSpace(in.Notes),
		Unit:     strings.TrimSpace(in.Unit),
		Actor:    actor,
	}, nil
}

// positiveQuantity exige un entero > 0 representable en int64.
func positiveQuantity(q decimal.Decimal) (int64, error) {
	if !q.IsInteger() || !q.IsPositive() || q.GreaterThan(maxQuantity) {
		return 0, domain.ErrInvalidQuantity
	}
	return q.IntPart(), nil
}

func toOperationResponse(rec *MovementRecord, msg string) *dto.StockOperationResponse {
	out := &dto.StockOperationResponse{
		Success:     true,
		Message:     msg,
		OldQuantity: rec.OldQuantity,
		NewQuantity: rec.NewQuantity,
	}
	if rec.Movement != nil {
		out.Data = toMovementResponse(rec.Movement)
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	var createdBy *string
	if m.CreatedBy != "" {
		cb := m.CreatedBy
		createdBy = &cb
	}
	return dto.StockMovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		Notes:     m.Notes,
		Reference: m.Reference,
		CreatedBy: createdBy,
		CreatedAt: m.CreatedAt,
	}
}
