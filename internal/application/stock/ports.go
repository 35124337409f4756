package stock

import (
	"context"

	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el append del movimiento y el
// upsert de la proyección se confirman o revierten juntos: nunca puede
// observarse un movimiento aplicado a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
	) error) error
}
