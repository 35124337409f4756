package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// BelowMinimumResult producto con disponible bajo el mínimo y su déficit.
type BelowMinimumResult struct {
	Product entity.Product
	Record  entity.StockRecord
	Deficit int
}

// StockRecordRepository define el puerto para la proyección de stock.
// Las escrituras ocurren solo dentro de la transacción del motor de
// movimientos; ninguna otra capa escribe la proyección directamente.
type StockRecordRepository interface {
	// Get devuelve la proyección; si no existe, una en cero (bootstrap lazy).
	Get(productID, variantID string) (*entity.StockRecord, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE)
	// para serializar movimientos concurrentes sobre el mismo producto.
	GetForUpdate(productID, variantID string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	// ListBelowMinimum proyecciones con available < minimum para el usuario.
	ListBelowMinimum(userID string) ([]BelowMinimumResult, error)
}
