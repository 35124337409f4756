package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/SellerHub-api/internal/application/competition"
	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/pkg/logger"
)

// llmTimeout presupuesto por llamada al proveedor de IA.
const llmTimeout = 30 * time.Second

// BuyBoxAnalysisUseCase combina la foto competitiva de una publicación con
// una recomendación generada por IA. El análisis es de solo lectura: nunca
// modifica precios ni stock.
type BuyBoxAnalysisUseCase struct {
	signals *competition.SignalsUseCase
	llm     ports.LLMService
	log     *logger.Logger
}

// NewBuyBoxAnalysisUseCase construye el caso de uso.
func NewBuyBoxAnalysisUseCase(signals *competition.SignalsUseCase, llm ports.LLMService, log *logger.Logger) *BuyBoxAnalysisUseCase {
	return &BuyBoxAnalysisUseCase{signals: signals, llm: llm, log: log}
}

// BuyBoxAnalysisDTO snapshot más recomendación textual.
type BuyBoxAnalysisDTO struct {
	Snapshot       *dto.CompetitiveSnapshotDTO `json:"snapshot"`
	Recommendation string                      `json:"recommendation,omitempty"`
}

// AnalyzeListing trae la foto competitiva y le pide al LLM una recomendación
// de precios. Si el LLM falla, devuelve el snapshot sin recomendación: la
// señal competitiva vale por sí sola.
func (uc *BuyBoxAnalysisUseCase) AnalyzeListing(ctx context.Context, userID, listingID string) (*BuyBoxAnalysisDTO, error) {
	snapshot, err := uc.signals.FetchPriceToWin(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	result := &BuyBoxAnalysisDTO{Snapshot: snapshot}
	if !snapshot.HasCatalog {
		return result, nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()
	recommendation, err := uc.llm.AnalyzeBuyBox(llmCtx, snapshot)
	if err != nil {
		uc.log.Warn().Err(err).Str("listing_id", listingID).Msg("análisis IA no disponible")
		return result, nil
	}
	result.Recommendation = recommendation
	return result, nil
}
