package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

// memStore almacén en memoria con transacciones por snapshot.
type memStore struct {
	txMu      sync.Mutex // serializa transacciones
	mu        sync.Mutex
	items     map[int64]*entity.Item
	movements []*entity.StockMovement
	nextItem  int64
	nextMov   int64

	// staleCAS número de compare-and-set que fallarán por artículo (simula otro escritor).
	staleCAS map[int64]int
	// getErr error forzado en GetByID.
	getErr error
	// summary filas devueltas por Summary; summaryCalls cuenta consultas.
	summary      []*entity.StockSummary
	summaryCalls int
	// duringSummary se ejecuta mientras se calcula el resumen (simula un movimiento concurrente).
	duringSummary func()
}

func newMemStore(items ...entity.Item) *memStore {
	s := &memStore{items: map[int64]*entity.Item{}, staleCAS: map[int64]int{}}
	for i := range items {
		it := items[i]
		if it.ID == 0 {
			s.nextItem++
			it.ID = s.nextItem
		} else if it.ID > s.nextItem {
			s.nextItem = it.ID
		}
		if it.Unit == "" {
			it.Unit = entity.DefaultUnit
		}
		s.items[it.ID] = &it
	}
	return s
}

func (s *memStore) quantity(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Quantity
}

func (s *memStore) movementsFor(id int64) []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.ItemID == id {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) Run(ctx context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	snapItems := make(map[int64]entity.Item, len(s.items))
	for id, it := range s.items {
		snapItems[id] = *it
	}
	snapMovs := len(s.movements)
	snapNextItem, snapNextMov := s.nextItem, s.nextMov
	s.mu.Unlock()

	err := fn(memItems{s}, memMovements{s})
	if err != nil {
		s.mu.Lock()
		s.items = make(map[int64]*entity.Item, len(snapItems))
		for id, it := range snapItems {
			it := it
			s.items[id] = &it
		}
		s.movements = s.movements[:snapMovs]
		s.nextItem, s.nextMov = snapNextItem, snapNextMov
		s.mu.Unlock()
	}
	return err
}

type memItems struct{ s *memStore }

func (r memItems) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r memItems) GetByName(_ context.Context, name string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := entity.NormalizeName(name)
	for _, it := range r.s.items {
		if entity.NormalizeName(it.Name) == key {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memItems) ListAvailable(context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memItems) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if entity.NormalizeName(it.Name) == entity.NormalizeName(item.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.nextItem++
	item.ID = r.s.nextItem
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r memItems) CompareAndSetQuantity(_ context.Context, id, expected, next int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n := r.s.staleCAS[id]; n > 0 {
		r.s.staleCAS[id] = n - 1
		return false, nil
	}
	it, ok := r.s.items[id]
	if !ok || it.Quantity != expected {
		return false, nil
	}
	if next < 0 {
		return false, errors.New("check constraint items_quantity_check")
	}
	it.Quantity = next
	it.UpdatedAt = time.Now()
	return true, nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Append(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMov++
	m.ID = r.s.nextMov
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r memMovements) List(_ context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ItemID != 0 && m.ItemID != f.ItemID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		out = append(out, m)
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memMovements) Summary(context.Context) ([]*entity.StockSummary, error) {
	r.s.mu.Lock()
	r.s.summaryCalls++
	rows, during := r.s.summary, r.s.duringSummary
	r.s.mu.Unlock()
	if during != nil {
		during()
	}
	return rows, nil
}

// memCache caché en memoria con generaciones que cuenta invalidaciones.
type memCache struct {
	rows        []*entity.StockSummary
	rowsGen     int64
	ok          bool
	gen         int64
	invalidated int
}

func (c *memCache) Get(context.Context) ([]*entity.StockSummary, int64, bool, error) {
	if !c.ok || c.rowsGen != c.gen {
		return nil, c.gen, false, nil
	}
	return c.rows, c.gen, true, nil
}

func (c *memCache) Set(_ context.Context, gen int64, rows []*entity.StockSummary) error {
	c.rows, c.rowsGen, c.ok = rows, gen, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.rows, c.ok = nil, false
	c.gen++
	c.invalidated++
	return nil
}

func ptr[T any](v T) *T { return &v }
