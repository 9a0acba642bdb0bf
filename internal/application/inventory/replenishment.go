package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/application/dto"
)

var idealFactor = decimal.NewFromFloat(1.5)

// Replenishment lista los artículos con mínimo definido cuya cantidad está en o bajo ese mínimo,
// con la cantidad sugerida para llegar al stock ideal (mínimo * 1.5).
// Orden: sin stock primero, luego mayor déficit relativo, luego más salidas históricas.
func (s *QueryService) Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestionResponse, error) {
	items, err := s.items.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar artículos: %w", err)
	}
	totals, err := s.summaryRows(ctx)
	if err != nil {
		return nil, err
	}
	outByItem := make(map[int64]int64, len(totals))
	for _, t := range totals {
		outByItem[t.ItemID] = t.TotalOut
	}

	out := make([]dto.ReplenishmentSuggestionResponse, 0)
	for _, it := range items {
		if it.MinQuantity <= 0 || it.Quantity > it.MinQuantity {
			continue
		}
		ideal := decimal.NewFromInt(it.MinQuantity).Mul(idealFactor).Ceil().IntPart()
		suggested := ideal - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.ReplenishmentSuggestionResponse{
			ItemID:            it.ID,
			ItemName:          it.Name,
			Unit:              it.Unit,
			Status:            it.Status(),
			CurrentQuantity:   it.Quantity,
			MinQuantity:       it.MinQuantity,
			IdealQuantity:     ideal,
			SuggestedOrderQty: suggested,
			TotalOut:          outByItem[it.ID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.CurrentQuantity == 0) != (b.CurrentQuantity == 0) {
			return a.CurrentQuantity == 0
		}
		// déficit relativo a/b comparado sin división
		da := decimal.NewFromInt(a.MinQuantity - a.CurrentQuantity).Mul(decimal.NewFromInt(b.MinQuantity))
		db := decimal.NewFromInt(b.MinQuantity - b.CurrentQuantity).Mul(decimal.NewFromInt(a.MinQuantity))
		if !da.Equal(db) {
			return da.GreaterThan(db)
		}
		if a.TotalOut != b.TotalOut {
			return a.TotalOut > b.TotalOut
		}
		return a.ItemID < b.ItemID
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
