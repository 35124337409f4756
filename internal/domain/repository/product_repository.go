package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.Product, error)
	GetByUserAndSKU(userID, sku string) (*entity.Product, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
