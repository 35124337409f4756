package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementReceipt = "RECEIPT" // entrada (compra, devolución)
	MovementIssue   = "ISSUE"   // salida (venta)
	MovementAdjust  = "ADJUST"  // ajuste absoluto del stock actual
	MovementReserve = "RESERVE" // bloqueo por pedido pendiente
	MovementRelease = "RELEASE" // liberación de una reserva
)

// ReasonChannelImport marca los AJUSTES originados por la reconciliación
// con el canal de ventas (importación de cantidades remotas).
const ReasonChannelImport = "channel-import"

// StockMovement es un movimiento inmutable del libro de stock. Solo se
// inserta, nunca se actualiza ni elimina: la proyección StockRecord es un
// fold sobre la secuencia ordenada de movimientos.
type StockMovement struct {
	ID        string
	ProductID string
	VariantID string
	UserID    string
	Kind      string
	Quantity  int // siempre > 0; en ADJUST es el nuevo valor absoluto de Current
	Reason    string
	UnitCost  *decimal.Decimal // relevante en RECEIPT
	Document  string           // referencia externa: factura, pedido, nota
	CreatedAt time.Time
}
