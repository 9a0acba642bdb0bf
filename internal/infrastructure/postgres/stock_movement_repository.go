package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos sobre PostgreSQL. Solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento y completa ID y CreatedAt.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO stock_movements (item_id, type, quantity, unit, notes, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.ItemID, m.Type, m.Quantity, m.Unit,
		nullIfEmpty(m.Notes), nullIfEmpty(m.Reference), nullIfEmpty(m.CreatedBy), createdAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List devuelve movimientos con el nombre del artículo, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	if f.ItemID > 0 {
		args = append(args, f.ItemID)
		where = append(where, fmt.Sprintf("sm.item_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("sm.type = $%d", len(args)))
	}
	query := `
		SELECT sm.id, sm.item_id, i.name, sm.type, sm.quantity, sm.unit, sm.notes, sm.reference, sm.created_by, sm.created_at
		FROM stock_movements sm
		JOIN items i ON i.id = sm.item_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY sm.created_at DESC, sm.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m                           entity.StockMovement
			notes, reference, createdBy *string
		)
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Type, &m.Quantity, &m.Unit,
			&notes, &reference, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Notes = deref(notes)
		m.Reference = deref(reference)
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Summary agrega entradas, salidas y última transacción por artículo.
func (r *StockMovementRepo) Summary(ctx context.Context) ([]*entity.StockSummary, error) {
	query := `
		SELECT i.id, i.name, i.unit,
			COALESCE(SUM(sm.quantity) FILTER (WHERE sm.type = 'in'), 0)  AS total_in,
			COALESCE(SUM(sm.quantity) FILTER (WHERE sm.type = 'out'), 0) AS total_out,
			COUNT(sm.id) AS total_transactions,
			MAX(sm.created_at) AS last_transaction
		FROM items i
		LEFT JOIN stock_movements sm ON sm.item_id = i.id
		GROUP BY i.id, i.name, i.unit
		ORDER BY i.name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockSummary
	for rows.Next() {
		var (
			s                 entity.StockSummary
			totalIn, totalOut decimal.Decimal
		)
		if err := rows.Scan(&s.ItemID, &s.ItemName, &s.Unit, &totalIn, &totalOut,
			&s.TotalTransactions, &s.LastTransaction); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		s.TotalIn = totalIn.IntPart()
		s.TotalOut = totalOut.IntPart()
		list = append(list, &s)
	}
	return list, rows.Err()
}
