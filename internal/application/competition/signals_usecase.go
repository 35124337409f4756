// Package competition consulta las señales competitivas del canal (posición
// en el Buy Box, precio para ganar, boosts y competidores) y las normaliza
// para el resto de la aplicación y el motor de reglas.
package competition

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// SignalsUseCase obtiene y normaliza señales competitivas por publicación.
type SignalsUseCase struct {
	linkRepo repository.ListingLinkRepository
	channel  ports.ChannelClient
	tokens   ports.TokenProvider
}

// NewSignalsUseCase construye el caso de uso.
func NewSignalsUseCase(
	linkRepo repository.ListingLinkRepository,
	channel ports.ChannelClient,
	tokens ports.TokenProvider,
) *SignalsUseCase {
	return &SignalsUseCase{linkRepo: linkRepo, channel: channel, tokens: tokens}
}

// remediations sugerencias estáticas por código de bloqueo del canal.
var remediations = map[string]string{
	"non_trusted_seller":           "Mejora tu reputación como vendedor",
	"reputation_below_threshold":   "Aumenta tu reputación para competir",
	"winner_has_better_reputation": "Trabaja en mejorar la reputación",
	"manufacturing_time":           "Reduce el tiempo de fabricación o mantén stock",
	"item_paused":                  "Reactiva la publicación",
	"item_not_opted_in":            "Haz opt-in a la competencia de catálogo",
	"shipping_mode":                "Mejora tu método de envío",
	"newbie_program_seller":        "Sigue vendiendo para salir del programa de dosificación",
}

// FetchPriceToWin trae la foto competitiva de una publicación. Un ítem fuera
// del catálogo devuelve HasCatalog=false: es un resultado común, no un error.
func (uc *SignalsUseCase) FetchPriceToWin(ctx context.Context, userID, listingID string) (*dto.CompetitiveSnapshotDTO, error) {
	link, err := uc.linkRepo.GetByListingID(userID, listingID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrNotFound
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := uc.channel.GetPriceToWin(ctx, token, listingID)
	if err != nil {
		return nil, err
	}
	if !raw.HasCatalog {
		return &dto.CompetitiveSnapshotDTO{ListingID: listingID, HasCatalog: false}, nil
	}

	snapshot := &dto.CompetitiveSnapshotDTO{
		ListingID:        listingID,
		HasCatalog:       true,
		CatalogProductID: raw.CatalogProductID,
		CurrentPrice:     raw.CurrentPrice,
		PriceToWin:       raw.PriceToWin,
		Status:           normalizeStatus(raw.Status),
		SharingFirst:     raw.CompetitorsSharingFirst,
		VisitShare:       raw.VisitShare,
	}
	if raw.PriceToWin != nil {
		gap := raw.CurrentPrice.Sub(*raw.PriceToWin)
		snapshot.PriceGap = &gap
	}
	for _, b := range raw.Boosts {
		snapshot.Boosts = append(snapshot.Boosts, dto.BoostDTO{
			ID:          b.ID,
			Description: b.Description,
			State:       classifyBoost(b.Status),
		})
	}
	for _, code := range raw.Reasons {
		suggestion, ok := remediations[code]
		if !ok {
			suggestion = fmt.Sprintf("Resuelve el bloqueo: %s", code)
		}
		snapshot.BlockingReasons = append(snapshot.BlockingReasons, dto.BlockingReasonDTO{
			Code:       code,
			Suggestion: suggestion,
		})
	}
	return snapshot, nil
}

// normalizeStatus mapea el estado del canal al enum de cuatro valores.
func normalizeStatus(status string) string {
	switch status {
	case "winning":
		return dto.CompetitiveWinning
	case "competing":
		return dto.CompetitiveCompeting
	case "sharing_first_place":
		return dto.CompetitiveSharingFirst
	default: // "listed" y cualquier estado desconocido
		return dto.CompetitiveListedOnly
	}
}

// classifyBoost clasifica el estado de un boost del canal.
func classifyBoost(status string) string {
	switch status {
	case "boosted":
		return dto.BoostActive
	case "opportunity":
		return dto.BoostOpportunity
	case "not_boosted":
		return dto.BoostInactive
	default:
		return dto.BoostNotApplicable
	}
}

// FetchCompetitors lista las ofertas competidoras de una página de catálogo
// ordenadas por precio ascendente, marca al ganador del Buy Box, calcula la
// distancia porcentual de cada una al precio más bajo y agrega estadísticas
// de mercado (fracción con envío gratis, fracción con logística premium).
func (uc *SignalsUseCase) FetchCompetitors(ctx context.Context, userID, catalogProductID string) (*dto.CompetitorsReportDTO, error) {
	if catalogProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := uc.channel.GetCompetitors(ctx, token, catalogProductID)
	if err != nil {
		return nil, err
	}

	report := &dto.CompetitorsReportDTO{
		CatalogProductID: catalogProductID,
		Total:            len(items),
		Competitors:      make([]dto.CompetitorDTO, 0, len(items)),
		FreeShippingRate: decimal.Zero,
		FulfillmentRate:  decimal.Zero,
	}
	if len(items) == 0 {
		return report, nil
	}

	// El ganador del Buy Box lo informa el detalle del producto; si esa
	// consulta falla, cae al precio más bajo como aproximación.
	var winnerItemID string
	if winner, err := uc.channel.GetBuyBoxWinner(ctx, token, catalogProductID); err == nil && winner != nil {
		winnerItemID = winner.ItemID
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Price.LessThan(items[j].Price)
	})
	lowest := items[0].Price
	if winnerItemID == "" {
		winnerItemID = items[0].ItemID
	}

	hundred := decimal.NewFromInt(100)
	var freeShipping, fulfillment int64
	for _, item := range items {
		distance := decimal.Zero
		if lowest.GreaterThan(decimal.Zero) {
			distance = item.Price.Sub(lowest).Div(lowest).Mul(hundred).Round(2)
		}
		isFulfillment := item.LogisticType == "fulfillment"
		if item.FreeShipping {
			freeShipping++
		}
		if isFulfillment {
			fulfillment++
		}
		report.Competitors = append(report.Competitors, dto.CompetitorDTO{
			ItemID:          item.ItemID,
			SellerID:        item.SellerID,
			Price:           item.Price,
			IsWinner:        item.ItemID == winnerItemID,
			DistancePercent: distance,
			FreeShipping:    item.FreeShipping,
			Fulfillment:     isFulfillment,
			ListingTypeID:   item.ListingTypeID,
			Condition:       item.Condition,
		})
	}

	total := decimal.NewFromInt(int64(len(items)))
	report.FreeShippingRate = decimal.NewFromInt(freeShipping).Div(total).Round(4)
	report.FulfillmentRate = decimal.NewFromInt(fulfillment).Div(total).Round(4)
	return report, nil
}
