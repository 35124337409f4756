// Package automation implementa el motor de reglas declarativas: CRUD de
// reglas, evaluación bajo demanda y registro de auditoría de cada corrida.
package automation

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// Ajustes de precio admitidos por una regla PRICE.
const (
	AdjustReduce   = "reduce"
	AdjustIncrease = "increase"
)

// Modos de una regla STOCK.
const (
	StockModePush   = "push"
	StockModeImport = "import"
)

// PriceCondition predicado de una regla PRICE: dispara cuando el estado
// competitivo de la publicación está en Statuses. Vacío equivale a
// "cualquier estado que no sea WINNING".
type PriceCondition struct {
	Statuses []string `json:"statuses,omitempty"`
}

// PriceAction transforma el precio de cada publicación objetivo.
type PriceAction struct {
	Adjust     string           `json:"adjust"` // reduce | increase
	Percent    decimal.Decimal  `json:"percent"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"` // piso absoluto tras el ajuste
	ListingIDs []string         `json:"listing_ids"`
}

// BuyBoxCondition predicado de una regla BUYBOX: dispara cuando la
// publicación no está ganando y el canal informa un precio para ganar.
type BuyBoxCondition struct {
	// MaxDropPercent caída máxima tolerada respecto al precio actual.
	// Nil desactiva el límite.
	MaxDropPercent *decimal.Decimal `json:"max_drop_percent,omitempty"`
}

// BuyBoxAction iguala el precio al price_to_win, sin perforar MinPrice.
type BuyBoxAction struct {
	ListingIDs []string         `json:"listing_ids"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
}

// StockCondition predicado de una regla STOCK: dispara cuando hay productos
// con disponible bajo el mínimo y déficit >= MinDeficit.
type StockCondition struct {
	MinDeficit int `json:"min_deficit,omitempty"`
}

// StockAction qué hacer al disparar: empujar el stock local al canal o
// importar las cantidades del canal al libro.
type StockAction struct {
	Mode string `json:"mode"` // push | import
}

// ReactivationCondition predicado de una regla REACTIVATION: dispara cuando
// hay publicaciones pausadas entre los objetivos.
type ReactivationCondition struct {
	// RequireStock exige disponible > 0 antes de reactivar.
	RequireStock bool `json:"require_stock,omitempty"`
}

// ReactivationAction publicaciones a reactivar. Vacío = todas las pausadas.
type ReactivationAction struct {
	ListingIDs []string `json:"listing_ids,omitempty"`
}

// RulePayload es la unión etiquetada por tipo de regla. Exactamente un par
// condición/acción es no-nil según el Type de la regla.
type RulePayload struct {
	PriceCond        *PriceCondition
	PriceAct         *PriceAction
	BuyBoxCond       *BuyBoxCondition
	BuyBoxAct        *BuyBoxAction
	StockCond        *StockCondition
	StockAct         *StockAction
	ReactivationCond *ReactivationCondition
	ReactivationAct  *ReactivationAction
}

// DecodePayload decodifica y valida condición y acción según el tipo de la
// regla. Se invoca al crear la regla y al cargarla para ejecutar; un payload
// inválido es ErrInvalidInput.
func DecodePayload(ruleType string, condition, action json.RawMessage) (*RulePayload, error) {
	p := &RulePayload{}
	switch ruleType {
	case entity.RuleTypePrice:
		var cond PriceCondition
		var act PriceAction
		if err := decodeBoth(condition, action, &cond, &act); err != nil {
			return nil, err
		}
		if act.Adjust != AdjustReduce && act.Adjust != AdjustIncrease {
			return nil, domain.ErrInvalidInput
		}
		if act.Percent.LessThanOrEqual(decimal.Zero) || len(act.ListingIDs) == 0 {
			return nil, domain.ErrInvalidInput
		}
		p.PriceCond, p.PriceAct = &cond, &act

	case entity.RuleTypeBuyBox:
		var cond BuyBoxCondition
		var act BuyBoxAction
		if err := decodeBoth(condition, action, &cond, &act); err != nil {
			return nil, err
		}
		if len(act.ListingIDs) == 0 {
			return nil, domain.ErrInvalidInput
		}
		if cond.MaxDropPercent != nil && cond.MaxDropPercent.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		p.BuyBoxCond, p.BuyBoxAct = &cond, &act

	case entity.RuleTypeStock:
		var cond StockCondition
		var act StockAction
		if err := decodeBoth(condition, action, &cond, &act); err != nil {
			return nil, err
		}
		if cond.MinDeficit < 0 {
			return nil, domain.ErrInvalidInput
		}
		if act.Mode != StockModePush && act.Mode != StockModeImport {
			return nil, domain.ErrInvalidInput
		}
		p.StockCond, p.StockAct = &cond, &act

	case entity.RuleTypeReactivation:
		var cond ReactivationCondition
		var act ReactivationAction
		if err := decodeBoth(condition, action, &cond, &act); err != nil {
			return nil, err
		}
		p.ReactivationCond, p.ReactivationAct = &cond, &act

	default:
		return nil, domain.ErrInvalidInput
	}
	return p, nil
}

func decodeBoth(condition, action json.RawMessage, cond, act any) error {
	if len(condition) == 0 || len(action) == 0 {
		return domain.ErrInvalidInput
	}
	if err := json.Unmarshal(condition, cond); err != nil {
		return domain.ErrInvalidInput
	}
	if err := json.Unmarshal(action, act); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
