package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement registro inmutable del historial: un cambio de cantidad de un artículo.
// Quantity siempre es positivo; Type indica la dirección.
type StockMovement struct {
	ID        int64
	ItemID    int64
	ItemName  string // solo lectura, viene del JOIN en consultas
	Type      string
	Quantity  int64
	Unit      string
	Notes     string
	Reference string // p.ej. "reconcile:<uuid>" para movimientos de una conciliación masiva
	CreatedBy string // operador; vacío si anónimo
	CreatedAt time.Time
}

// IsValidMovementType indica si t es "in" u "out".
func IsValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// MovementFilter filtros de consulta del historial.
type MovementFilter struct {
	ItemID int64  // 0 = todos
	Type   string // "" = todos
	Limit  int
	Offset int
}
