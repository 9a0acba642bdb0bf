package inventory

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: el cambio de cantidad y su movimiento se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// SummaryCache caché del resumen de stock. Invalidate se llama tras cada movimiento y avanza la generación.
// Get devuelve la generación vigente; Set guarda filas calculadas en esa generación y, si entre medias
// hubo una invalidación, Get ya no las sirve.
type SummaryCache interface {
	Get(ctx context.Context) (rows []*entity.StockSummary, gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, rows []*entity.StockSummary) error
	Invalidate(ctx context.Context) error
}

// SheetRow fila de datos de una hoja: Line es su número en el archivo (la cabecera suele ser la 1).
type SheetRow struct {
	Line  int
	Cells map[string]string
}

// SheetReader convierte un archivo subido (csv/xlsx) en filas cabecera→celda de la primera hoja.
// Las filas vacías no se devuelven, pero Line conserva la numeración original.
type SheetReader interface {
	Read(r io.Reader, filename string) ([]SheetRow, error)
}

// SummaryReportRenderer genera el PDF del resumen de stock.
type SummaryReportRenderer interface {
	RenderStockSummary(ctx context.Context, rows []*entity.StockSummary, generatedAt time.Time) ([]byte, error)
}

// NoopSummaryCache caché vacía para cuando no hay Redis configurado.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(context.Context) ([]*entity.StockSummary, int64, bool, error) {
	return nil, 0, false, nil
}
func (NoopSummaryCache) Set(context.Context, int64, []*entity.StockSummary) error { return nil }
func (NoopSummaryCache) Invalidate(context.Context) error                         { return nil }
