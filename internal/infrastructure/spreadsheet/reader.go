// Package spreadsheet lee hojas de cálculo subidas (csv/xlsx) como filas cabecera→celda.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/domain"
)

var _ inventory.SheetReader = (*Reader)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader lee la primera hoja de un .xlsx o un .csv.
type Reader struct {
	// MaxRows límite de filas de datos; 0 = sin límite.
	MaxRows int
}

// NewReader construye el lector.
func NewReader(maxRows int) *Reader {
	return &Reader{MaxRows: maxRows}
}

// line fila cruda de la hoja con su número de línea en el archivo.
type line struct {
	num   int
	cells []string
}

// Read devuelve una fila por registro usando la primera fila como cabecera.
// Las filas completamente vacías se ignoran. Los errores envuelven domain.ErrParseFailure.
func (r *Reader) Read(src io.Reader, filename string) ([]inventory.SheetRow, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: leer archivo: %v", domain.ErrParseFailure, err)
	}

	var grid []line
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		grid, err = readXLSX(data)
	case ".csv", ".txt":
		grid, err = readCSV(data)
	case ".xls":
		return nil, fmt.Errorf("%w: formato .xls no soportado, guarde el archivo como .xlsx o .csv", domain.ErrParseFailure)
	default:
		return nil, fmt.Errorf("%w: extensión %q no soportada", domain.ErrParseFailure, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	return r.records(grid)
}

func (r *Reader) records(grid []line) ([]inventory.SheetRow, error) {
	if len(grid) == 0 {
		return nil, nil
	}
	header := make([]string, len(grid[0].cells))
	for i, h := range grid[0].cells {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]inventory.SheetRow, 0, len(grid)-1)
	for _, ln := range grid[1:] {
		if blank(ln.cells) {
			continue
		}
		if r.MaxRows > 0 && len(out) >= r.MaxRows {
			return nil, fmt.Errorf("%w: el archivo supera %d filas", domain.ErrParseFailure, r.MaxRows)
		}
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(ln.cells) {
				rec[h] = strings.TrimSpace(ln.cells[i])
			} else {
				rec[h] = ""
			}
		}
		out = append(out, inventory.SheetRow{Line: ln.num, Cells: rec})
	}
	return out, nil
}

// readXLSX GetRows conserva las filas vacías intermedias, así que la fila i es la línea i+1.
func readXLSX(data []byte) ([]line, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	out := make([]line, len(rows))
	for i, cells := range rows {
		out[i] = line{num: i + 1, cells: cells}
	}
	return out, nil
}

// readCSV acepta UTF-8 (con o sin BOM) y, si no es UTF-8 válido, Windows-1252.
// El separador es ',' salvo que la cabecera tenga más ';' (exportaciones de Excel en locales con coma decimal).
// encoding/csv salta las líneas vacías; el número de línea sale de FieldPos.
func readCSV(data []byte) ([]line, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decodificar csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		cr.Comma = ';'
	}
	var out []line
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		num, _ := cr.FieldPos(0)
		out = append(out, line{num: num, cells: cells})
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
