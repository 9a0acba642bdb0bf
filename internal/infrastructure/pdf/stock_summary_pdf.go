// Package pdf genera el reporte PDF del resumen de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del almacén  │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Unidad | Entradas | Salidas | Mov. | Últ. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: entradas / salidas / movimientos                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gudang-api/internal/application/inventory"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

var _ inventory.SummaryReportRenderer = (*StockSummaryPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// StockSummaryPDF implementa inventory.SummaryReportRenderer usando Maroto v2.
type StockSummaryPDF struct {
	title string
}

// NewStockSummaryPDF construye el generador; title aparece en la cabecera (p.ej. el nombre del servicio).
func NewStockSummaryPDF(title string) *StockSummaryPDF {
	if title == "" {
		title = "Almacén"
	}
	return &StockSummaryPDF{title: title}
}

// RenderStockSummary genera el PDF y devuelve sus bytes.
func (g *StockSummaryPDF) RenderStockSummary(
	_ context.Context,
	rows []*entity.StockSummary,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de stock", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin artículos registrados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(tableDetailRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Resumen de movimientos por artículo", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Artículo", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Mov.", 1, align.Right),
		h("Último mov.", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(rows []*entity.StockSummary) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, s := range rows {
		last := "-"
		if s.LastTransaction != nil {
			last = s.LastTransaction.Format("02/01/2006")
		}
		r := row.New(7).Add(
			col.New(4).Add(text.New(s.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(s.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatThousands(s.TotalIn), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatThousands(s.TotalOut), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatThousands(s.TotalTransactions), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(last, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

func totalsRow(rows []*entity.StockSummary) core.Row {
	var in, out, tx int64
	for _, s := range rows {
		in += s.TotalIn
		out += s.TotalOut
		tx += s.TotalTransactions
	}
	bold := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: a, Top: 2, Right: 1, Color: colorPrimary})
	}
	return row.New(10).Add(
		col.New(5).Add(bold(fmt.Sprintf("TOTAL (%d artículos)", len(rows)), align.Left)),
		col.New(2).Add(bold(formatThousands(in), align.Right)),
		col.New(2).Add(bold(formatThousands(out), align.Right)),
		col.New(1).Add(bold(formatThousands(tx), align.Right)),
		col.New(2),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatThousands inserta puntos de miles. Ej: 1000000 → "1.000.000".
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	k := len(s)
	if k <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, k+k/3)
	for i, c := range []byte(s) {
		if i > 0 && (k-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
