package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	ledger *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func toStockRecordDTO(r *entity.StockRecord) dto.StockRecordDTO {
	return dto.StockRecordDTO{
		ProductID: r.ProductID,
		VariantID: r.VariantID,
		Current:   r.Current,
		Available: r.Available,
		Reserved:  r.Reserved,
		Minimum:   r.Minimum,
		UpdatedAt: r.UpdatedAt,
	}
}

func toMovementDTO(m *entity.StockMovement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		UnitCost:  m.UnitCost,
		Document:  m.Document,
		CreatedAt: m.CreatedAt,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica RECEIPT, ISSUE, ADJUST, RESERVE o RELEASE y devuelve la proyección resultante.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, kind, quantity, reason, unit_cost (RECEIPT), document"
// @Success      201   {object}  dto.StockRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.ledger.ApplyMovement(c.Context(), stock.MovementInput{
		UserID:    userID,
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UnitCost:  in.UnitCost,
		Document:  in.Document,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockRecordDTO(record))
}

// GetStock godoc
// @Summary      Proyección de stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de variante"
// @Success      200  {object}  dto.StockRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	record, err := h.ledger.GetStock(c.Context(), userID, c.Params("product_id"), c.Query("variant_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockRecordDTO(record))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        limit       query  int     false  "máximo de resultados (default 50)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	movements, err := h.ledger.ListMovements(c.Context(), userID, c.Params("product_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementDTO(m))
	}
	return c.JSON(out)
}

// ListBelowMinimum godoc
// @Summary      Productos con disponible bajo el mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BelowMinimumDTO
// @Router       /api/stock/below-minimum [get]
func (h *StockHandler) ListBelowMinimum(c *fiber.Ctx) error {
	userID := GetUserID(c)
	results, err := h.ledger.ListBelowMinimum(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BelowMinimumDTO, 0, len(results))
	for _, r := range results {
		out = append(out, dto.BelowMinimumDTO{
			ProductID: r.Product.ID,
			SKU:       r.Product.SKU,
			Name:      r.Product.Name,
			Available: r.Record.Available,
			Minimum:   r.Record.Minimum,
			Deficit:   r.Deficit,
		})
	}
	return c.JSON(out)
}

// SetMinimum godoc
// @Summary      Fijar umbral de alerta de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetMinimumRequest  true  "product_id, variant_id, minimum"
// @Success      200  {object}  dto.StockRecordDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/minimum [put]
func (h *StockHandler) SetMinimum(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.SetMinimumRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.ledger.SetMinimum(c.Context(), userID, in.ProductID, in.VariantID, in.Minimum)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockRecordDTO(record))
}

// VerifyProjection godoc
// @Summary      Verificar la proyección contra el log de movimientos
// @Description  Recalcula la proyección desde el historial completo y la compara con la cacheada.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de variante"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/verify [get]
func (h *StockHandler) VerifyProjection(c *fiber.Ctx) error {
	userID := GetUserID(c)
	cached, replayed, err := h.ledger.VerifyProjection(c.Context(), userID, c.Params("product_id"), c.Query("variant_id"))
	if err != nil {
		return respondError(c, err)
	}
	consistent := cached.Current == replayed.Current &&
		cached.Available == replayed.Available &&
		cached.Reserved == replayed.Reserved
	return c.JSON(fiber.Map{
		"consistent": consistent,
		"cached":     toStockRecordDTO(cached),
		"replayed":   toStockRecordDTO(replayed),
	})
}
