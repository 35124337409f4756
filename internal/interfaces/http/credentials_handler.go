package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/infrastructure/mercadolibre"
)

// CredentialsHandler guarda la credencial del canal del vendedor. El flujo
// OAuth corre fuera de este servicio; aquí solo se recibe su resultado.
type CredentialsHandler struct {
	tokens *mercadolibre.DBTokenProvider
}

// NewCredentialsHandler construye el handler.
func NewCredentialsHandler(tokens *mercadolibre.DBTokenProvider) *CredentialsHandler {
	return &CredentialsHandler{tokens: tokens}
}

// SaveCredential godoc
// @Summary      Guardar credencial de Mercado Libre
// @Tags         credentials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]interface{}  true  "access_token, expires_in (segundos)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/credentials/mercadolibre [put]
func (h *CredentialsHandler) SaveCredential(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.AccessToken == "" || in.ExpiresIn <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "access_token y expires_in requeridos"})
	}
	expiresAt := time.Now().Add(time.Duration(in.ExpiresIn) * time.Second)
	if err := h.tokens.SaveCredential(c.Context(), userID, in.AccessToken, expiresAt); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "credencial guardada"})
}
