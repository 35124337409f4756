package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto. DISCONTINUED es borrado lógico: los movimientos
// históricos siguen referenciando al producto, nunca se elimina físicamente.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// Product representa un producto del catálogo del vendedor.
// SKU es único por usuario; Price es el precio de venta de referencia local.
type Product struct {
	ID          string
	UserID      string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
