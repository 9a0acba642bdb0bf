package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
)

// finalQuantityColumns columnas aceptadas para la cantidad final, en orden de preferencia.
var finalQuantityColumns = []string{"finalquantity", "final_quantity", "quantity", "final"}

// errMissingQuantity la fila no trae ninguna columna de cantidad final.
var errMissingQuantity = errors.New("falta la columna de cantidad final")

// rowError error de normalización con el valor crudo que lo causó.
type rowError struct {
	err   error
	value string
}

func (e *rowError) Error() string { return e.err.Error() }
func (e *rowError) Unwrap() error { return e.err }

// NormalizeRecord convierte un registro cabecera→valor (fila de hoja o de JSON) en una fila de conciliación.
// Las cabeceras se comparan sin distinguir mayúsculas; id tiene prioridad sobre name; celdas vacías e id 0 cuentan como ausentes.
// Devuelve la fila parcial (id/name) aunque falle, para poder reportarla.
func NormalizeRecord(record map[string]any) (dto.BulkStockUpdateRow, error) {
	fields := make(map[string]any, len(record))
	for k, v := range record {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	var row dto.BulkStockUpdateRow
	var refErr error
	if raw, ok := present(fields, "id"); ok {
		id, err := parseInteger(raw)
		switch {
		case err != nil:
			refErr = &rowError{err: fmt.Errorf("%w: id no numérico", domain.ErrInvalidInput), value: raw}
		case id != 0:
			row.ID = &id
		}
	}
	if raw, ok := present(fields, "name"); ok {
		row.Name = raw
	}

	raw, ok := "", false
	for _, col := range finalQuantityColumns {
		if raw, ok = present(fields, col); ok {
			break
		}
	}
	if !ok {
		return row, errMissingQuantity
	}
	qty, err := parseInteger(raw)
	if err != nil {
		return row, &rowError{err: domain.ErrInvalidQuantity, value: raw}
	}
	row.Quantity = qty

	if refErr != nil {
		return row, refErr
	}
	if row.ID == nil && row.Name == "" {
		return row, fmt.Errorf("%w: se requiere id o name", domain.ErrInvalidInput)
	}
	return row, nil
}

// present devuelve el valor de key como texto recortado si existe y no está vacío.
func present(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// parseInteger acepta "15", "15.0", "1e2"; rechaza fracciones y valores fuera de int64.
func parseInteger(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.Abs().GreaterThan(maxQuantity) {
		return 0, domain.ErrInvalidQuantity
	}
	return d.IntPart(), nil
}
