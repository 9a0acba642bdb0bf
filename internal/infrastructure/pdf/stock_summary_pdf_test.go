package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

func TestRenderStockSummary(t *testing.T) {
	last := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	rows := []*entity.StockSummary{
		{ItemID: 1, ItemName: "Martillo", Unit: "pcs", TotalIn: 1200, TotalOut: 300, TotalTransactions: 4, LastTransaction: &last},
		{ItemID: 2, ItemName: "Clavos", Unit: "box"},
	}

	doc, err := NewStockSummaryPDF("gudang-api").RenderStockSummary(context.Background(), rows, last)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	empty, err := NewStockSummaryPDF("").RenderStockSummary(context.Background(), nil, last)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "25.000", formatThousands(25000))
	assert.Equal(t, "1.000.000", formatThousands(1000000))
	assert.Equal(t, "-1.500", formatThousands(-1500))
}
