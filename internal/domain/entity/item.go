package entity

import (
	"strings"
	"time"
)

// Estados derivados del stock de un artículo.
const (
	ItemStatusInStock    = "in-stock"
	ItemStatusLowStock   = "low-stock"
	ItemStatusOutOfStock = "out-of-stock"
)

// DefaultUnit unidad usada cuando el artículo no declara una.
const DefaultUnit = "pcs"

// Item representa un artículo del almacén. Quantity solo cambia vía movimientos de stock.
type Item struct {
	ID          int64
	Name        string // único sin distinguir mayúsculas (ver NormalizeName)
	Description string
	Category    string
	Quantity    int64
	MinQuantity int64
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status deriva el estado a partir de Quantity y MinQuantity.
func (i Item) Status() string {
	switch {
	case i.Quantity > i.MinQuantity:
		return ItemStatusInStock
	case i.Quantity > 0:
		return ItemStatusLowStock
	default:
		return ItemStatusOutOfStock
	}
}

// NormalizeName clave de comparación para nombres: sin espacios extremos y en minúsculas.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
