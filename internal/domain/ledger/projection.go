// Package ledger contiene la aritmética pura del libro de stock: cómo un
// movimiento transforma la proyección StockRecord. No toca persistencia;
// el caso de uso la ejecuta dentro de la transacción.
package ledger

import (
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// Apply calcula el estado candidato de la proyección tras un movimiento.
// No muta el record recibido: devuelve una copia con los nuevos valores.
//
//   - RECEIPT:  current += q; available += q
//   - ISSUE:    requiere available >= q; current -= q; available -= q
//   - ADJUST:   q es el nuevo current absoluto; el delta se aplica solo al
//     disponible (la porción reservada no se toca)
//   - RESERVE:  requiere available >= q; available -= q; reserved += q
//   - RELEASE:  available += q; reserved -= q (reserved no puede ser negativo)
//
// Solo ADJUST admite cantidad cero: un recuento (o el canal) puede informar
// stock agotado. El resto de los movimientos exige cantidad positiva.
func Apply(record entity.StockRecord, kind string, quantity int) (entity.StockRecord, error) {
	if quantity < 0 || (quantity == 0 && kind != entity.MovementAdjust) {
		return record, domain.ErrInvalidMovement
	}

	next := record
	switch kind {
	case entity.MovementReceipt:
		next.Current += quantity
		next.Available += quantity

	case entity.MovementIssue:
		if record.Available < quantity {
			return record, domain.ErrInsufficientStock
		}
		next.Current -= quantity
		next.Available -= quantity

	case entity.MovementAdjust:
		delta := quantity - record.Current
		next.Current = quantity
		next.Available += delta
		// Un ajuste corrige solo la porción libre: si el disponible quedara
		// negativo la corrección es inconsistente con las reservas vigentes.
		if next.Available < 0 {
			return record, domain.ErrInvalidMovement
		}

	case entity.MovementReserve:
		if record.Available < quantity {
			return record, domain.ErrInsufficientStock
		}
		next.Available -= quantity
		next.Reserved += quantity

	case entity.MovementRelease:
		if record.Reserved < quantity {
			return record, domain.ErrInvalidMovement
		}
		next.Available += quantity
		next.Reserved -= quantity

	default:
		return record, domain.ErrInvalidMovement
	}

	return next, nil
}

// Replay reconstruye la proyección desde cero aplicando la secuencia ordenada
// de movimientos (del más antiguo al más reciente). Usado para verificación
// de consistencia: el resultado debe coincidir con la proyección cacheada.
func Replay(productID, variantID string, movements []*entity.StockMovement) (entity.StockRecord, error) {
	record := entity.StockRecord{ProductID: productID, VariantID: variantID}
	for _, m := range movements {
		next, err := Apply(record, m.Kind, m.Quantity)
		if err != nil {
			return record, err
		}
		record = next
	}
	return record, nil
}
