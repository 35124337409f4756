package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/channelsync"
	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// SyncHandler maneja las peticiones HTTP de sincronización con el canal (protegido).
type SyncHandler struct {
	uc *channelsync.SyncUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *channelsync.SyncUseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

func toLinkDTO(l *entity.ListingLink) dto.ListingLinkDTO {
	return dto.ListingLinkDTO{
		ListingID:       l.ListingID,
		ProductID:       l.ProductID,
		ListingStatus:   l.ListingStatus,
		ChannelQuantity: l.ChannelQuantity,
		ChannelPrice:    l.ChannelPrice,
		SyncStatus:      l.SyncStatus,
		LastSyncAt:      l.LastSyncAt,
	}
}

// LinkListing godoc
// @Summary      Vincular publicación del canal a un producto
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LinkListingRequest  true  "listing_id, product_id"
// @Success      201   {object}  dto.ListingLinkDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sync/links [post]
func (h *SyncHandler) LinkListing(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.LinkListingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	link, err := h.uc.LinkListing(c.Context(), userID, in.ListingID, in.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLinkDTO(link))
}

// UnlinkListing godoc
// @Summary      Desvincular publicación
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        listing_id  path  string  true  "ID de la publicación (MLB...)"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/links/{listing_id} [delete]
func (h *SyncHandler) UnlinkListing(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if err := h.uc.UnlinkListing(c.Context(), userID, c.Params("listing_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "vínculo eliminado"})
}

// ListLinks godoc
// @Summary      Vínculos de un producto
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.ListingLinkDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/products/{product_id}/links [get]
func (h *SyncHandler) ListLinks(c *fiber.Ctx) error {
	userID := GetUserID(c)
	links, err := h.uc.ListLinks(c.Context(), userID, c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ListingLinkDTO, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkDTO(l))
	}
	return c.JSON(out)
}

// PushProduct godoc
// @Summary      Empujar el disponible local a todas las publicaciones del producto
// @Description  Los fallos por publicación quedan en details; el batch nunca aborta.
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BatchSyncResultDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/products/{product_id}/push [post]
func (h *SyncHandler) PushProduct(c *fiber.Ctx) error {
	userID := GetUserID(c)
	result, err := h.uc.PushProductQuantity(c.Context(), userID, c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// PullListing godoc
// @Summary      Leer la cantidad publicada en el canal
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        listing_id  path  string  true  "ID de la publicación"
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/links/{listing_id}/pull [get]
func (h *SyncHandler) PullListing(c *fiber.Ctx) error {
	userID := GetUserID(c)
	qty, err := h.uc.PullQuantity(c.Context(), userID, c.Params("listing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"available_quantity": qty})
}

// ImportAll godoc
// @Summary      Importar cantidades del canal al libro local
// @Description  Aplica un AJUSTE con razón channel-import por cada publicación con drift.
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BatchSyncResultDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sync/import [post]
func (h *SyncHandler) ImportAll(c *fiber.Ctx) error {
	userID := GetUserID(c)
	result, err := h.uc.ImportAllFromChannel(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
