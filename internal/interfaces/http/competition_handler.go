package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/competition"
	"github.com/jhoicas/SellerHub-api/internal/application/usecase"
)

// CompetitionHandler maneja las peticiones HTTP de señales competitivas (protegido).
type CompetitionHandler struct {
	signals  *competition.SignalsUseCase
	analysis *usecase.BuyBoxAnalysisUseCase
}

// NewCompetitionHandler construye el handler.
func NewCompetitionHandler(signals *competition.SignalsUseCase, analysis *usecase.BuyBoxAnalysisUseCase) *CompetitionHandler {
	return &CompetitionHandler{signals: signals, analysis: analysis}
}

// GetPriceToWin godoc
// @Summary      Foto competitiva de una publicación
// @Description  Estado en el Buy Box, precio para ganar, boosts y motivos de bloqueo con sugerencia.
// @Tags         competition
// @Security     Bearer
// @Produce      json
// @Param        listing_id  path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.CompetitiveSnapshotDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/competition/{listing_id}/price-to-win [get]
func (h *CompetitionHandler) GetPriceToWin(c *fiber.Ctx) error {
	userID := GetUserID(c)
	snapshot, err := h.signals.FetchPriceToWin(c.Context(), userID, c.Params("listing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snapshot)
}

// GetCompetitors godoc
// @Summary      Competidores de una página de catálogo
// @Description  Ordenados por precio ascendente, con el ganador del Buy Box marcado y estadísticas de mercado.
// @Tags         competition
// @Security     Bearer
// @Produce      json
// @Param        catalog_product_id  path  string  true  "ID del producto de catálogo"
// @Success      200  {object}  dto.CompetitorsReportDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/competition/catalog/{catalog_product_id}/competitors [get]
func (h *CompetitionHandler) GetCompetitors(c *fiber.Ctx) error {
	userID := GetUserID(c)
	report, err := h.signals.FetchCompetitors(c.Context(), userID, c.Params("catalog_product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// AnalyzeListing godoc
// @Summary      Análisis competitivo con IA
// @Description  Foto competitiva más recomendación de precios generada por IA. Si la IA falla, devuelve solo la foto.
// @Tags         competition
// @Security     Bearer
// @Produce      json
// @Param        listing_id  path  string  true  "ID de la publicación"
// @Success      200  {object}  usecase.BuyBoxAnalysisDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/competition/{listing_id}/analysis [get]
func (h *CompetitionHandler) AnalyzeListing(c *fiber.Ctx) error {
	userID := GetUserID(c)
	result, err := h.analysis.AnalyzeListing(c.Context(), userID, c.Params("listing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
