package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/domain"
)

func TestNormalizeRecord_ColumnasAlternativas(t *testing.T) {
	cases := []struct {
		name   string
		record map[string]any
		want   int64
	}{
		{"finalQuantity", map[string]any{"name": "A", "finalQuantity": "12"}, 12},
		{"final_quantity", map[string]any{"name": "A", "final_quantity": 13}, 13},
		{"quantity", map[string]any{"name": "A", "Quantity": "14.0"}, 14},
		{"final", map[string]any{"name": "A", "FINAL": float64(15)}, 15},
		{"prefiere finalQuantity", map[string]any{"name": "A", "quantity": "1", "finalQuantity": "2"}, 2},
		{"ignora vacía", map[string]any{"name": "A", "finalQuantity": " ", "quantity": "3"}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row, err := NormalizeRecord(tc.record)
			require.NoError(t, err)
			assert.Equal(t, tc.want, row.Quantity)
			assert.Equal(t, "A", row.Name)
		})
	}
}

func TestNormalizeRecord_IDTienePrioridad(t *testing.T) {
	row, err := NormalizeRecord(map[string]any{"ID": " 7 ", "name": "  Foco  ", "quantity": "1"})
	require.NoError(t, err)
	require.NotNil(t, row.ID)
	assert.Equal(t, int64(7), *row.ID)
	assert.Equal(t, "Foco", row.Name)
}

func TestNormalizeRecord_IDCeroUsaNombre(t *testing.T) {
	row, err := NormalizeRecord(map[string]any{"id": "0", "name": "Foco", "quantity": "1"})
	require.NoError(t, err)
	assert.Nil(t, row.ID)
	assert.Equal(t, "Foco", row.Name)
}

func TestNormalizeRecord_IDNegativoSeConserva(t *testing.T) {
	row, err := NormalizeRecord(map[string]any{"id": "-3", "name": "Foco", "quantity": "1"})
	require.NoError(t, err)
	require.NotNil(t, row.ID)
	assert.Equal(t, int64(-3), *row.ID)
}

func TestNormalizeRecord_Errores(t *testing.T) {
	_, err := NormalizeRecord(map[string]any{"name": "A"})
	assert.ErrorIs(t, err, errMissingQuantity)

	_, err = NormalizeRecord(map[string]any{"name": "A", "quantity": "diez"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = NormalizeRecord(map[string]any{"name": "A", "quantity": "2.5"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = NormalizeRecord(map[string]any{"quantity": "2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NormalizeRecord(map[string]any{"id": "x1", "quantity": "2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalizeRecord_NegativoPasaAlMotor(t *testing.T) {
	row, err := NormalizeRecord(map[string]any{"name": "A", "quantity": "-4"})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), row.Quantity)
}
