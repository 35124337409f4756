package stock

import (
	"context"

	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/ledger"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// GetStock devuelve la proyección del producto (en cero si nunca se movió).
func (uc *LedgerUseCase) GetStock(ctx context.Context, userID, productID, variantID string) (*entity.StockRecord, error) {
	if err := uc.ownProduct(userID, productID); err != nil {
		return nil, err
	}
	return uc.recordRepo.Get(productID, variantID)
}

// ListMovements historial de movimientos del más reciente al más antiguo.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, userID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if err := uc.ownProduct(userID, productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.movRepo.ListByProduct(productID, limit, offset)
}

// ListBelowMinimum productos del usuario con disponible bajo el mínimo.
func (uc *LedgerUseCase) ListBelowMinimum(ctx context.Context, userID string) ([]repository.BelowMinimumResult, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListBelowMinimum(userID)
}

// SetMinimum actualiza el umbral de alerta sin registrar movimiento (el
// mínimo no forma parte del fold, es metadato de la proyección).
func (uc *LedgerUseCase) SetMinimum(ctx context.Context, userID, productID, variantID string, minimum int) (*entity.StockRecord, error) {
	if minimum < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ownProduct(userID, productID); err != nil {
		return nil, err
	}

	var result *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
	) error {
		record, err := recordRepo.GetForUpdate(productID, variantID)
		if err != nil {
			return err
		}
		record.Minimum = minimum
		if err := recordRepo.Upsert(record); err != nil {
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyProjection recalcula la proyección desde el log completo y la compara
// con la cacheada. Devuelve ambas; difieren solo ante corrupción externa.
func (uc *LedgerUseCase) VerifyProjection(ctx context.Context, userID, productID, variantID string) (cached, replayed *entity.StockRecord, err error) {
	if err := uc.ownProduct(userID, productID); err != nil {
		return nil, nil, err
	}
	cached, err = uc.recordRepo.Get(productID, variantID)
	if err != nil {
		return nil, nil, err
	}
	movements, err := uc.movRepo.ListByProductAsc(productID)
	if err != nil {
		return nil, nil, err
	}
	// El log es por producto; la proyección es por producto+variante.
	filtered := movements[:0:0]
	for _, m := range movements {
		if m.VariantID == variantID {
			filtered = append(filtered, m)
		}
	}
	rec, err := ledger.Replay(productID, variantID, filtered)
	if err != nil {
		return nil, nil, err
	}
	rec.Minimum = cached.Minimum
	rec.UpdatedAt = cached.UpdatedAt
	return cached, &rec, nil
}
