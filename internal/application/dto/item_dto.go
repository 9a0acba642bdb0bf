package dto

import (
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// NewItemRequest especificación de un artículo nuevo (POST /items/bulk).
type NewItemRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"max=100"`
	Quantity    int64  `json:"quantity" validate:"min=0"`
	MinQuantity int64  `json:"minQuantity" validate:"min=0"`
	Unit        string `json:"unit" validate:"max=30"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Quantity    int64     `json:"quantity"`
	MinQuantity int64     `json:"minQuantity"`
	Unit        string    `json:"unit"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BulkCreateResponse salida de POST /items/bulk.
type BulkCreateResponse struct {
	Count int            `json:"count"`
	Items []ItemResponse `json:"items"`
}

// AvailableItemResponse artículo tal como lo ve el formulario de entradas/salidas.
type AvailableItemResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	CurrentQuantity int64  `json:"currentQuantity"`
	MinQuantity     int64  `json:"minQuantity"`
	Unit            string `json:"unit"`
	Status          string `json:"status"`
}

// ToItemResponse mapea la entidad a su salida HTTP.
func ToItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Category:    it.Category,
		Quantity:    it.Quantity,
		MinQuantity: it.MinQuantity,
		Unit:        it.Unit,
		Status:      it.Status(),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
