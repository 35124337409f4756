// Package usecase contiene los casos de uso que no pertenecen a un
// subdominio propio: catálogo de productos y análisis asistido por IA.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo local con alcance por usuario.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// CreateProduct valida y persiste un producto. SKU duplicado para el mismo
// usuario es ErrDuplicate.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, userID string, req dto.CreateProductRequest) (*entity.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if userID == "" || sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.productRepo.GetByUserAndSKU(userID, sku); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		UserID:      userID,
		SKU:         sku,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Status:      entity.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct devuelve un producto del usuario. Producto ajeno o inexistente
// responde ErrNotFound por igual.
func (uc *ProductUseCase) GetProduct(ctx context.Context, userID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts catálogo del usuario paginado.
func (uc *ProductUseCase) ListProducts(ctx context.Context, userID string, page dto.PageRequest) ([]*entity.Product, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.productRepo.ListByUser(userID, page.Limit, page.Offset)
}

// UpdateProduct aplica cambios parciales. El SKU es inmutable.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, userID, productID string, req dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.GetProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *req.Price
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.ProductStatusActive, entity.ProductStatusInactive:
			product.Status = *req.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct borrado lógico: marca DISCONTINUED. El historial de
// movimientos del producto permanece intacto.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, userID, productID string) error {
	product, err := uc.GetProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	product.Status = entity.ProductStatusDiscontinued
	product.UpdatedAt = time.Now().UTC()
	return uc.productRepo.Update(product)
}
