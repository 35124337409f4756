package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/ledger"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// LedgerUseCase aplica movimientos de stock de forma transaccional y expone
// las consultas del libro. Toda mutación de StockRecord pasa por aquí.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	recordRepo  repository.StockRecordRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		recordRepo:  recordRepo,
	}
}

// MovementInput entrada para aplicar un movimiento. UserID es obligatorio:
// no existe usuario por defecto.
type MovementInput struct {
	UserID    string
	ProductID string
	VariantID string
	Kind      string
	Quantity  int
	Reason    string
	UnitCost  *decimal.Decimal
	Document  string
}

// ApplyMovement valida, bloquea la fila de la proyección (SELECT FOR UPDATE),
// aplica la aritmética del libro y persiste movimiento + proyección en una
// sola transacción. Devuelve la proyección resultante.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockRecord, error) {
	if input.UserID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	// ADJUST a cero es legítimo (stock agotado); el resto exige cantidad positiva.
	if input.Quantity < 0 || (input.Quantity == 0 && input.Kind != entity.MovementAdjust) {
		return nil, domain.ErrInvalidMovement
	}
	switch input.Kind {
	case entity.MovementReceipt, entity.MovementIssue, entity.MovementAdjust,
		entity.MovementReserve, entity.MovementRelease:
	default:
		return nil, domain.ErrInvalidMovement
	}

	// Chequeo de pertenencia antes de cualquier escritura. Un producto ajeno
	// responde NotFound, nunca Forbidden, para no filtrar existencia.
	if err := uc.ownProduct(input.UserID, input.ProductID); err != nil {
		return nil, err
	}

	var result *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
	) error {
		record, err := recordRepo.GetForUpdate(input.ProductID, input.VariantID)
		if err != nil {
			return err
		}

		next, err := ledger.Apply(*record, input.Kind, input.Quantity)
		if err != nil {
			return err
		}

		movement := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			UserID:    input.UserID,
			Kind:      input.Kind,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			UnitCost:  input.UnitCost,
			Document:  input.Document,
			CreatedAt: time.Now().UTC(),
		}
		if err := movRepo.Create(movement); err != nil {
			return err
		}

		next.UpdatedAt = movement.CreatedAt
		if err := recordRepo.Upsert(&next); err != nil {
			return err
		}
		result = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ownProduct valida que el producto exista y pertenezca al usuario.
func (uc *LedgerUseCase) ownProduct(userID, productID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.UserID != userID {
		return domain.ErrNotFound
	}
	return nil
}
