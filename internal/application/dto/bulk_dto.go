package dto

// BulkStockUpdateRow fila de conciliación: id o name identifican el artículo;
// Quantity es la cantidad FINAL que debe quedar, no un delta.
type BulkStockUpdateRow struct {
	ID       *int64 `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Quantity int64  `json:"quantity"`
}

// BulkUpdateItemResult fila conciliada con éxito.
type BulkUpdateItemResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	OldQuantity int64  `json:"oldQuantity"`
	NewQuantity int64  `json:"newQuantity"`
}

// Delta diferencia aplicada (positivo = entrada, negativo = salida).
func (r BulkUpdateItemResult) Delta() int64 { return r.NewQuantity - r.OldQuantity }

// Códigos de error por fila.
const (
	RowErrItemNotFound      = "ITEM_NOT_FOUND"
	RowErrInvalidQuantity   = "INVALID_QUANTITY"
	RowErrInvalidInput      = "INVALID_INPUT"
	RowErrInsufficientStock = "INSUFFICIENT_STOCK"
	RowErrConflict          = "CONFLICT"
	RowErrCancelled         = "CANCELLED"
	RowErrInternal          = "INTERNAL"
)

// BulkUpdateError fila rechazada; Item repite lo recibido.
type BulkUpdateError struct {
	Item  BulkStockUpdateRow `json:"item"`
	Code  string             `json:"code"`
	Error string             `json:"error"`
	Value string             `json:"value,omitempty"` // valor crudo cuando la cantidad no era numérica
}

// BulkUpdateResult salida de POST /items/bulk-update-stock.
// len(Results) + len(Errors) == filas recibidas.
type BulkUpdateResult struct {
	Success      bool                   `json:"success"`
	UpdatedCount int                    `json:"updatedCount"`
	Reference    string                 `json:"reference"`
	Results      []BulkUpdateItemResult `json:"results"`
	Errors       []BulkUpdateError      `json:"errors"`
}

// SkippedRow fila de la hoja que no se pudo usar.
type SkippedRow struct {
	Row    int    `json:"row"` // número de fila en la hoja (la cabecera es la 1)
	Reason string `json:"reason"`
}

// StockImportResult salida de POST /items/import-stock.
type StockImportResult struct {
	BulkUpdateResult
	TotalRows    int          `json:"totalRows"`
	SkippedCount int          `json:"skippedCount"`
	Skipped      []SkippedRow `json:"skipped"`
}
