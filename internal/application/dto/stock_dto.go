package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOperationRequest body de POST /stock/in y /stock/out.
// Quantity acepta número o cadena numérica; debe ser un entero positivo.
type StockOperationRequest struct {
	ItemID   int64           `json:"itemId" validate:"required,gt=0"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes" validate:"max=500"`
	Unit     string          `json:"unit" validate:"max=30"`
}

// StockMovementResponse un registro del historial.
type StockMovementResponse struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes"`
	Reference string    `json:"reference,omitempty"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StockOperationResponse salida de una entrada/salida registrada.
type StockOperationResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	Data        StockMovementResponse `json:"data"`
	OldQuantity int64                 `json:"oldQuantity"`
	NewQuantity int64                 `json:"newQuantity"`
}

// StockHistoryQuery filtros de GET /stock/history.
type StockHistoryQuery struct {
	ItemID int64  `query:"itemId" validate:"min=0"`
	Type   string `query:"type" validate:"omitempty,oneof=in out"`
	PageRequest
}

// StockSummaryResponse agregado por artículo.
type StockSummaryResponse struct {
	ItemID            int64      `json:"item_id"`
	ItemName          string     `json:"item_name"`
	Unit              string     `json:"unit"`
	TotalIn           int64      `json:"total_in"`
	TotalOut          int64      `json:"total_out"`
	TotalTransactions int64      `json:"total_transactions"`
	LastTransaction   *time.Time `json:"last_transaction"`
}

// ReplenishmentSuggestionResponse artículo en o bajo su mínimo con la cantidad sugerida a pedir.
type ReplenishmentSuggestionResponse struct {
	ItemID            int64  `json:"item_id"`
	ItemName          string `json:"item_name"`
	Unit              string `json:"unit"`
	Status            string `json:"status"`
	CurrentQuantity   int64  `json:"current_quantity"`
	MinQuantity       int64  `json:"min_quantity"`
	IdealQuantity     int64  `json:"ideal_quantity"`      // MinQuantity * 1.5, redondeado hacia arriba
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealQuantity - CurrentQuantity
	TotalOut          int64  `json:"total_out"`           // salidas históricas, para priorizar
	Priority          int    `json:"priority"`            // 1 = más urgente
}
