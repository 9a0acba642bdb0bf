package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o negativos.
func (p *PageRequest) DefaultPage(defLimit int) {
	if p.Limit <= 0 {
		p.Limit = defLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// DataResponse envoltorio {data: ...} usado por los listados de stock.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// InsufficientStockDetails detalle de un error INSUFFICIENT_STOCK.
type InsufficientStockDetails struct {
	ItemID    int64 `json:"itemId"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}
