// Package cache guarda en Redis el resumen de stock por artículo.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

var _ inventory.SummaryCache = (*SummaryCache)(nil)

// SummaryKey clave del resumen de stock; GenerationKey contador que avanza con cada invalidación.
const (
	SummaryKey    = "gudang:stock:summary"
	GenerationKey = "gudang:stock:summary:gen"
)

// SummaryCache resumen de stock serializado en JSON con TTL.
// Cada resumen guarda la generación en que se calculó; tras una invalidación deja de servirse
// aunque una escritura tardía lo haya vuelto a guardar.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSummaryCache construye la caché. ttl <= 0 usa 60s.
func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

type cachedSummary struct {
	ItemID            int64      `json:"item_id"`
	ItemName          string     `json:"item_name"`
	Unit              string     `json:"unit"`
	TotalIn           int64      `json:"total_in"`
	TotalOut          int64      `json:"total_out"`
	TotalTransactions int64      `json:"total_transactions"`
	LastTransaction   *time.Time `json:"last_transaction"`
}

type cachedPayload struct {
	Gen  int64           `json:"gen"`
	Rows []cachedSummary `json:"rows"`
}

// Get devuelve la generación vigente y, si el resumen guardado es de esa generación, sus filas.
func (c *SummaryCache) Get(ctx context.Context) ([]*entity.StockSummary, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, GenerationKey, SummaryKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis mget: %w", err)
	}
	var gen int64
	if vals[0] != nil {
		if gen, err = cast.ToInt64E(vals[0]); err != nil {
			return nil, 0, false, fmt.Errorf("generación del resumen: %w", err)
		}
	}
	raw, ok := vals[1].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var payload cachedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, gen, false, fmt.Errorf("decodificar resumen: %w", err)
	}
	if payload.Gen != gen {
		return nil, gen, false, nil
	}
	out := make([]*entity.StockSummary, 0, len(payload.Rows))
	for _, s := range payload.Rows {
		out = append(out, &entity.StockSummary{
			ItemID:            s.ItemID,
			ItemName:          s.ItemName,
			Unit:              s.Unit,
			TotalIn:           s.TotalIn,
			TotalOut:          s.TotalOut,
			TotalTransactions: s.TotalTransactions,
			LastTransaction:   s.LastTransaction,
		})
	}
	return out, gen, true, nil
}

// Set guarda el resumen calculado en la generación gen con el TTL configurado.
func (c *SummaryCache) Set(ctx context.Context, gen int64, rows []*entity.StockSummary) error {
	payload := cachedPayload{Gen: gen, Rows: make([]cachedSummary, 0, len(rows))}
	for _, s := range rows {
		payload.Rows = append(payload.Rows, cachedSummary{
			ItemID:            s.ItemID,
			ItemName:          s.ItemName,
			Unit:              s.Unit,
			TotalIn:           s.TotalIn,
			TotalOut:          s.TotalOut,
			TotalTransactions: s.TotalTransactions,
			LastTransaction:   s.LastTransaction,
		})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("codificar resumen: %w", err)
	}
	if err := c.rdb.Set(ctx, SummaryKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate avanza la generación y borra el resumen.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, SummaryKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidar: %w", err)
	}
	return nil
}
