package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SellerHub-api/internal/application/automation"
	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// AutomationHandler maneja las peticiones HTTP del motor de reglas (protegido).
type AutomationHandler struct {
	rules  *automation.RulesUseCase
	engine *automation.Engine
}

// NewAutomationHandler construye el handler.
func NewAutomationHandler(rules *automation.RulesUseCase, engine *automation.Engine) *AutomationHandler {
	return &AutomationHandler{rules: rules, engine: engine}
}

func toRuleDTO(r *entity.AutomationRule) dto.RuleDTO {
	return dto.RuleDTO{
		ID:         r.ID,
		Name:       r.Name,
		Type:       r.Type,
		Condition:  r.Condition,
		Action:     r.Action,
		Active:     r.Active,
		Executions: r.Executions,
		CreatedAt:  r.CreatedAt,
	}
}

// CreateRule godoc
// @Summary      Crear regla de automatización
// @Description  Tipos: PRICE, BUYBOX, STOCK, REACTIVATION. Condición y acción se validan contra el esquema del tipo.
// @Tags         automation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRuleRequest  true  "name, type, condition, action, active"
// @Success      201   {object}  dto.RuleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/automation/rules [post]
func (h *AutomationHandler) CreateRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.rules.CreateRule(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRuleDTO(rule))
}

// ListRules godoc
// @Summary      Listar reglas
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "solo reglas activas"
// @Success      200  {array}  dto.RuleDTO
// @Router       /api/automation/rules [get]
func (h *AutomationHandler) ListRules(c *fiber.Ctx) error {
	userID := GetUserID(c)
	rules, err := h.rules.ListRules(c.Context(), userID, c.QueryBool("active_only"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, toRuleDTO(r))
	}
	return c.JSON(out)
}

// GetRule godoc
// @Summary      Detalle de una regla
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la regla"
// @Success      200  {object}  dto.RuleDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/automation/rules/{id} [get]
func (h *AutomationHandler) GetRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	rule, err := h.rules.GetRule(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRuleDTO(rule))
}

// SetRuleActive godoc
// @Summary      Activar o desactivar una regla
// @Tags         automation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la regla"
// @Param        body  body  map[string]bool  true  "active"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/automation/rules/{id}/active [put]
func (h *AutomationHandler) SetRuleActive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.rules.SetRuleActive(c.Context(), userID, c.Params("id"), in.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "regla actualizada"})
}

// DeleteRule godoc
// @Summary      Eliminar regla
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la regla"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/automation/rules/{id} [delete]
func (h *AutomationHandler) DeleteRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if err := h.rules.DeleteRule(c.Context(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "regla eliminada"})
}

// ListRuleLogs godoc
// @Summary      Historial de ejecuciones de una regla
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la regla"
// @Param        limit   query  int     false  "máximo de resultados (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  entity.AutomationLog
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/automation/rules/{id}/logs [get]
func (h *AutomationHandler) ListRuleLogs(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	logs, err := h.rules.ListRuleLogs(c.Context(), userID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}

// ExecuteAll godoc
// @Summary      Ejecutar todas las reglas activas
// @Description  Evalúa cada regla contra el estado actual; los fallos por regla quedan en el detalle.
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExecutionSummaryDTO
// @Router       /api/automation/execute [post]
func (h *AutomationHandler) ExecuteAll(c *fiber.Ctx) error {
	userID := GetUserID(c)
	summary, err := h.engine.ExecuteAllActiveRules(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// ExecuteRule godoc
// @Summary      Ejecutar una regla puntual
// @Tags         automation
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la regla"
// @Success      200  {object}  dto.RuleExecutionDetailDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/automation/rules/{id}/execute [post]
func (h *AutomationHandler) ExecuteRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	detail, err := h.engine.ExecuteRule(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}
