package inventory

import (
	"math"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// Adjustment resultado de aplicar un movimiento a una cantidad (servicio de dominio puro).
type Adjustment struct {
	Type     string // entity.MovementTypeIn / MovementTypeOut; vacío si no hay cambio
	Quantity int64  // magnitud del movimiento, siempre >= 0
	Old      int64
	New      int64
}

// IsNoop indica que la cantidad no cambia.
func (a Adjustment) IsNoop() bool { return a.Quantity == 0 }

// Apply calcula la nueva cantidad para un movimiento de tipo movType y magnitud qty.
// qty debe ser > 0; una salida mayor que current devuelve *domain.InsufficientStockError.
// Una entrada que desbordaría int64 devuelve domain.ErrInvalidQuantity.
func Apply(itemID, current int64, movType string, qty int64) (Adjustment, error) {
	if qty <= 0 {
		return Adjustment{}, domain.ErrInvalidQuantity
	}
	switch movType {
	case entity.MovementTypeIn:
		if qty > math.MaxInt64-current {
			return Adjustment{}, domain.ErrInvalidQuantity
		}
		return Adjustment{Type: movType, Quantity: qty, Old: current, New: current + qty}, nil
	case entity.MovementTypeOut:
		if qty > current {
			return Adjustment{}, &domain.InsufficientStockError{ItemID: itemID, Available: current, Requested: qty}
		}
		return Adjustment{Type: movType, Quantity: qty, Old: current, New: current - qty}, nil
	default:
		return Adjustment{}, domain.ErrInvalidInput
	}
}

// Reconcile calcula el movimiento necesario para llevar current a target (cantidad final absoluta).
// delta > 0 es una entrada, delta < 0 una salida; delta == 0 no genera movimiento.
func Reconcile(current, target int64) (Adjustment, error) {
	if target < 0 {
		return Adjustment{}, domain.ErrInvalidQuantity
	}
	delta := target - current
	switch {
	case delta > 0:
		return Adjustment{Type: entity.MovementTypeIn, Quantity: delta, Old: current, New: target}, nil
	case delta < 0:
		return Adjustment{Type: entity.MovementTypeOut, Quantity: -delta, Old: current, New: target}, nil
	default:
		return Adjustment{Old: current, New: current}, nil
	}
}
