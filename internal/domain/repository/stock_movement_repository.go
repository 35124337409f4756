package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct lista movimientos del más reciente al más antiguo.
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByProductAsc lista del más antiguo al más reciente (para replay).
	ListByProductAsc(productID string) ([]*entity.StockMovement, error)
}
