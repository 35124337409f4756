package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/usecase"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *memProductRepo) GetByUserAndSKU(userID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func strPtr(s string) *string { return &s }

func TestCreateProduct_NormalizaYPersiste(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	product, err := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{
		SKU:   "  ZAP-001  ",
		Name:  " Zapatilla running ",
		Price: decimal.RequireFromString("1999.90"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "ZAP-001", product.SKU, "el SKU se guarda sin espacios")
	assert.Equal(t, "Zapatilla running", product.Name)
	assert.Equal(t, entity.ProductStatusActive, product.Status)
}

func TestCreateProduct_SKUDuplicadoPorUsuario(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "ZAP-001", Name: "A"})
	require.NoError(t, err)

	_, err = uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "ZAP-001", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Otro usuario puede reusar el mismo SKU.
	_, err = uc.CreateProduct(context.Background(), "user-2", dto.CreateProductRequest{SKU: "ZAP-001", Name: "C"})
	assert.NoError(t, err)
}

func TestCreateProduct_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	_, err := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "A", Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{
		SKU: "A", Name: "X", Price: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetProduct_AjenoRespondeNotFound(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)
	created, err := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "A", Name: "X"})
	require.NoError(t, err)

	_, err = uc.GetProduct(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un producto ajeno es indistinguible de uno inexistente")

	_, err = uc.GetProduct(context.Background(), "user-1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProduct_ParcialYSKUInmutable(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)
	created, err := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{
		SKU: "A", Name: "X", Price: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	updated, err := uc.UpdateProduct(context.Background(), "user-1", created.ID, dto.UpdateProductRequest{
		Name: strPtr("Nuevo nombre"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Nuevo nombre", updated.Name)
	assert.Equal(t, "A", updated.SKU)
	assert.Equal(t, "10", updated.Price.String(), "los campos no enviados no cambian")
}

func TestUpdateProduct_EstadoInvalido(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)
	created, _ := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "A", Name: "X"})

	_, err := uc.UpdateProduct(context.Background(), "user-1", created.ID, dto.UpdateProductRequest{
		Status: strPtr("discontinued"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"DISCONTINUED solo se alcanza por el borrado lógico")
}

func TestDeleteProduct_EsBorradoLogico(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)
	created, _ := uc.CreateProduct(context.Background(), "user-1", dto.CreateProductRequest{SKU: "A", Name: "X"})

	require.NoError(t, uc.DeleteProduct(context.Background(), "user-1", created.ID))

	stored := repo.products[created.ID]
	require.NotNil(t, stored, "el registro no se elimina físicamente")
	assert.Equal(t, entity.ProductStatusDiscontinued, stored.Status)
}
