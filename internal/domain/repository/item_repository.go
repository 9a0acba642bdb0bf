package repository

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// ItemRepository puerto del almacén de artículos (Item Store).
// Los Get* devuelven (nil, nil) cuando no existe el artículo.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetByName busca por nombre exacto tras recortar espacios, sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Item, error)
	ListAvailable(ctx context.Context) ([]*entity.Item, error)
	// Create persiste el artículo y completa ID/CreatedAt/UpdatedAt. ErrDuplicate si el nombre existe.
	Create(ctx context.Context, item *entity.Item) error
	// CompareAndSetQuantity cambia la cantidad solo si la actual es expected.
	// Devuelve false (sin error) si otro escritor la cambió antes.
	CompareAndSetQuantity(ctx context.Context, id, expected, next int64) (bool, error)
}
