package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, description, category, quantity, min_quantity, unit, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetByName busca por nombre recortado sin distinguir mayúsculas (usa el índice único lower(btrim(name))).
func (r *ItemRepo) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE lower(btrim(name)) = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, entity.NormalizeName(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return it, nil
}

// ListAvailable lista todos los artículos ordenados por nombre.
func (r *ItemRepo) ListAvailable(ctx context.Context) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name ASC, id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Create inserta el artículo y completa ID y timestamps.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (name, description, category, quantity, min_quantity, unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		item.Name, item.Description, item.Category, item.Quantity, item.MinQuantity, item.Unit,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe %q", domain.ErrDuplicate, item.Name)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// CompareAndSetQuantity actualiza la cantidad solo si sigue valiendo expected.
func (r *ItemRepo) CompareAndSetQuantity(ctx context.Context, id, expected, next int64) (bool, error) {
	query := `UPDATE items SET quantity = $3, updated_at = now() WHERE id = $1 AND quantity = $2`
	cmd, err := r.q.Exec(ctx, query, id, expected, next)
	if err != nil {
		return false, fmt.Errorf("update item quantity: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it          entity.Item
		description *string
		category    *string
	)
	err := row.Scan(&it.ID, &it.Name, &description, &category, &it.Quantity, &it.MinQuantity,
		&it.Unit, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		it.Description = *description
	}
	if category != nil {
		it.Category = *category
	}
	return &it, nil
}
