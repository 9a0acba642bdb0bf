package entity

import "time"

// StockSummary agregado por artículo de entradas, salidas y número de movimientos.
type StockSummary struct {
	ItemID            int64
	ItemName          string
	Unit              string
	TotalIn           int64
	TotalOut          int64
	TotalTransactions int64
	LastTransaction   *time.Time
}
