package ports

import (
	"context"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
)

// LLMService define el puerto de salida para el análisis con IA.
// Cualquier adaptador (Anthropic, OpenAI, mock) debe implementar esta
// interfaz; aplicación solo conoce este contrato, no la implementación.
type LLMService interface {
	// AnalyzeBuyBox genera una recomendación de precios en texto a partir
	// del snapshot competitivo de una publicación. El contexto debe llevar
	// timeout: un fallo del LLM nunca afecta operaciones de stock o sync.
	AnalyzeBuyBox(ctx context.Context, snapshot *dto.CompetitiveSnapshotDTO) (string, error)
}
