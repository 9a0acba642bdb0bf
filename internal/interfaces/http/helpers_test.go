package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/gudang-api/internal/interfaces/http"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "gudang-api-test"
	testUserID    = "operador-1"
)

// store almacén en memoria compartido por los repos de test. Run serializa las transacciones.
type store struct {
	mu        sync.Mutex
	items     []*entity.Item
	movements []*entity.StockMovement
}

func (s *store) Run(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, movs := len(s.items), len(s.movements)
	if err := fn(itemRepo{s}, movementRepo{s}); err != nil {
		s.items, s.movements = s.items[:items], s.movements[:movs]
		return err
	}
	return nil
}

type itemRepo struct{ s *store }

func (r itemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r itemRepo) GetByName(_ context.Context, name string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if entity.NormalizeName(it.Name) == entity.NormalizeName(name) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r itemRepo) ListAvailable(context.Context) ([]*entity.Item, error) { return r.s.items, nil }

func (r itemRepo) Create(_ context.Context, it *entity.Item) error {
	for _, e := range r.s.items {
		if entity.NormalizeName(e.Name) == entity.NormalizeName(it.Name) {
			return domain.ErrDuplicate
		}
	}
	it.ID = int64(len(r.s.items) + 1)
	it.CreatedAt, it.UpdatedAt = time.Now(), time.Now()
	cp := *it
	r.s.items = append(r.s.items, &cp)
	return nil
}

func (r itemRepo) CompareAndSetQuantity(_ context.Context, id, expected, next int64) (bool, error) {
	for _, it := range r.s.items {
		if it.ID == id && it.Quantity == expected {
			it.Quantity = next
			return true, nil
		}
	}
	return false, nil
}

type movementRepo struct{ s *store }

func (r movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	m.ID = int64(len(r.s.movements) + 1)
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if (f.ItemID == 0 || m.ItemID == f.ItemID) && (f.Type == "" || m.Type == f.Type) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r movementRepo) Summary(context.Context) ([]*entity.StockSummary, error) {
	totals := map[int64]*entity.StockSummary{}
	var out []*entity.StockSummary
	for _, it := range r.s.items {
		s := &entity.StockSummary{ItemID: it.ID, ItemName: it.Name, Unit: it.Unit}
		totals[it.ID] = s
		out = append(out, s)
	}
	for _, m := range r.s.movements {
		s := totals[m.ItemID]
		if m.Type == entity.MovementTypeIn {
			s.TotalIn += m.Quantity
		} else {
			s.TotalOut += m.Quantity
		}
		s.TotalTransactions++
		at := m.CreatedAt
		s.LastTransaction = &at
	}
	return out, nil
}

type pdfStub struct{}

func (pdfStub) RenderStockSummary(context.Context, []*entity.StockSummary, time.Time) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

// buildTestApp arma la API completa sobre el almacén en memoria, con los items dados.
func buildTestApp(t *testing.T, items ...entity.Item) (*fiber.App, *store) {
	t.Helper()
	s := &store{}
	for i := range items {
		it := items[i]
		it.ID = int64(len(s.items) + 1)
		if it.Unit == "" {
			it.Unit = entity.DefaultUnit
		}
		s.items = append(s.items, &it)
	}
	log := logger.Nop()
	lockedItems := lockedItemRepo{s}
	stock := inventory.NewStockService(s, nil, log, 3)
	reconciler := inventory.NewReconciler(stock, lockedItems, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:    "gudang-test",
		ItemUC:     usecase.NewItemUseCase(s, nil, log),
		Stock:      stock,
		Queries:    inventory.NewQueryService(lockedItems, lockedMovementRepo{s}, nil, pdfStub{}, log),
		Reconciler: reconciler,
		Importer:   inventory.NewImportService(spreadsheet.NewReader(0), reconciler, log),
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
		Log:        log,
	})
	return app, s
}

// lockedItemRepo lecturas fuera de transacción (toman el lock del store).
type lockedItemRepo struct{ s *store }

func (r lockedItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemRepo(r).GetByID(ctx, id)
}

func (r lockedItemRepo) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemRepo(r).GetByName(ctx, name)
}

func (r lockedItemRepo) ListAvailable(ctx context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r lockedItemRepo) Create(ctx context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemRepo(r).Create(ctx, it)
}

func (r lockedItemRepo) CompareAndSetQuantity(ctx context.Context, id, expected, next int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemRepo(r).CompareAndSetQuantity(ctx, id, expected, next)
}

type lockedMovementRepo struct{ s *store }

func (r lockedMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo(r).Append(ctx, m)
}

func (r lockedMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo(r).List(ctx, f)
}

func (r lockedMovementRepo) Summary(ctx context.Context) ([]*entity.StockSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo(r).Summary(ctx)
}

// doJSON lanza una petición con cuerpo JSON (crudo si body es string) y devuelve status y cuerpo.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, authHeader string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doUpload envía un multipart con el archivo en el campo "file".
func doUpload(t *testing.T, app *fiber.App, path, filename string, content []byte) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
