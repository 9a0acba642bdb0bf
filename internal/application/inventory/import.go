package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ImportService importa cantidades finales desde una hoja de cálculo subida.
type ImportService struct {
	reader     SheetReader
	reconciler *Reconciler
	log        *logger.Logger
}

// NewImportService construye el servicio de importación.
func NewImportService(reader SheetReader, reconciler *Reconciler, log *logger.Logger) *ImportService {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportService{reader: reader, reconciler: reconciler, log: log.Component("import")}
}

// ImportFinalQuantities lee la hoja, normaliza las filas y concilia las utilizables.
// Las filas sin cantidad final, con valores no numéricos o sin id ni name se omiten y se reportan.
func (s *ImportService) ImportFinalQuantities(ctx context.Context, r io.Reader, filename, actor string) (*dto.StockImportResult, error) {
	records, err := s.reader.Read(r, filename)
	if err != nil {
		if errors.Is(err, domain.ErrParseFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene filas", domain.ErrEmptyInput)
	}

	rows := make([]dto.BulkStockUpdateRow, 0, len(records))
	skipped := make([]dto.SkippedRow, 0)
	for _, rec := range records {
		fields := make(map[string]any, len(rec.Cells))
		for k, v := range rec.Cells {
			fields[k] = v
		}
		row, err := NormalizeRecord(fields)
		if err != nil {
			skipped = append(skipped, dto.SkippedRow{Row: rec.Line, Reason: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	if len(skipped) > 0 {
		s.log.Warn().Str("file", filename).Int("skipped", len(skipped)).Msg("filas omitidas en la importación")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: ninguna fila tiene id/name y cantidad final válidos", domain.ErrEmptyInput)
	}

	res := s.reconciler.ApplyBulkFinalQuantities(ctx, rows, actor)
	return &dto.StockImportResult{
		BulkUpdateResult: *res,
		TotalRows:        len(records),
		SkippedCount:     len(skipped),
		Skipped:          skipped,
	}, nil
}
