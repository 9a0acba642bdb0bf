package inventory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

type stubSheetReader struct {
	rows []SheetRow
	err  error
}

func (s stubSheetReader) Read(io.Reader, string) ([]SheetRow, error) {
	return s.rows, s.err
}

// consecutive numera las filas desde la línea 2, como una hoja sin filas vacías.
func consecutive(cells ...map[string]string) []SheetRow {
	out := make([]SheetRow, len(cells))
	for i, c := range cells {
		out[i] = SheetRow{Line: i + 2, Cells: c}
	}
	return out
}

func newTestImport(store *memStore, reader SheetReader) *ImportService {
	return NewImportService(reader, newTestReconciler(store), logger.Nop())
}

func TestImportFinalQuantities_ReportaFilasOmitidas(t *testing.T) {
	store := newMemStore(entity.Item{Name: "Martillo", Quantity: 3}, entity.Item{Name: "Sierra", Quantity: 8})
	svc := newTestImport(store, stubSheetReader{rows: consecutive(
		map[string]string{"id": "1", "final_quantity": "10"},
		map[string]string{"name": "Sierra", "notes": "sin cantidad"},
		map[string]string{"name": "Sierra", "final": "cinco"},
		map[string]string{"name": "", "final": "4"},
		map[string]string{"name": "Sierra", "final": "5"},
		map[string]string{"name": "Nada", "final": "1"},
	)})

	res, err := svc.ImportFinalQuantities(context.Background(), strings.NewReader(""), "conteo.xlsx", "u-2")
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalRows)
	assert.Equal(t, 3, res.SkippedCount)
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, 3, res.Skipped[0].Row, "la cabecera es la fila 1")
	assert.Equal(t, 4, res.Skipped[1].Row)
	assert.Equal(t, 5, res.Skipped[2].Row)

	require.Len(t, res.Results, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Nada", res.Errors[0].Item.Name)
	assert.Equal(t, res.TotalRows, len(res.Results)+len(res.Errors)+res.SkippedCount)

	assert.Equal(t, int64(10), store.quantity(1))
	assert.Equal(t, int64(5), store.quantity(2))
}

func TestImportFinalQuantities_ArchivoIlegible(t *testing.T) {
	svc := newTestImport(newMemStore(), stubSheetReader{err: errors.New("zip: not a valid zip file")})
	_, err := svc.ImportFinalQuantities(context.Background(), strings.NewReader("x"), "roto.xlsx", "")
	assert.ErrorIs(t, err, domain.ErrParseFailure)
}

func TestImportFinalQuantities_SinFilasUtiles(t *testing.T) {
	svc := newTestImport(newMemStore(), stubSheetReader{})
	_, err := svc.ImportFinalQuantities(context.Background(), strings.NewReader(""), "vacio.csv", "")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	svc = newTestImport(newMemStore(), stubSheetReader{rows: consecutive(map[string]string{"name": "A"})})
	_, err = svc.ImportFinalQuantities(context.Background(), strings.NewReader(""), "sin-cantidad.csv", "")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestImportFinalQuantities_FilaOmitidaUsaLineaDelArchivo(t *testing.T) {
	store := newMemStore(entity.Item{Name: "Martillo", Quantity: 3})
	svc := newTestImport(store, stubSheetReader{rows: []SheetRow{
		{Line: 2, Cells: map[string]string{"id": "1", "final_quantity": "5"}},
		{Line: 5, Cells: map[string]string{"id": "1", "final_quantity": ""}},
	}})

	res, err := svc.ImportFinalQuantities(context.Background(), strings.NewReader(""), "conteo.csv", "")
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 5, res.Skipped[0].Row)
	assert.Equal(t, int64(5), store.quantity(1))
}
