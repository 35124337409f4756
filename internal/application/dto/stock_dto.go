package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada HTTP para aplicar un movimiento de stock.
// Kind: RECEIPT, ISSUE, ADJUST, RESERVE o RELEASE. Quantity siempre > 0;
// en ADJUST es el nuevo valor absoluto del stock actual.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	VariantID string           `json:"variant_id"`
	Kind      string           `json:"kind"`
	Quantity  int              `json:"quantity"`
	Reason    string           `json:"reason"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	Document  string           `json:"document"`
}

// StockRecordDTO proyección de stock de un producto.
type StockRecordDTO struct {
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Current   int       `json:"current_quantity"`
	Available int       `json:"available_quantity"`
	Reserved  int       `json:"reserved_quantity"`
	Minimum   int       `json:"minimum_quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementDTO un movimiento del historial.
type MovementDTO struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	VariantID string           `json:"variant_id,omitempty"`
	Kind      string           `json:"kind"`
	Quantity  int              `json:"quantity"`
	Reason    string           `json:"reason"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Document  string           `json:"document,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// BelowMinimumDTO producto con stock bajo el mínimo y su déficit.
type BelowMinimumDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Available int    `json:"available_quantity"`
	Minimum   int    `json:"minimum_quantity"`
	Deficit   int    `json:"deficit"`
}

// SetMinimumRequest actualiza el umbral de alerta de un producto.
type SetMinimumRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Minimum   int    `json:"minimum"`
}
