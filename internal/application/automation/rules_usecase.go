package automation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// RulesUseCase CRUD de reglas con alcance por usuario.
type RulesUseCase struct {
	ruleRepo repository.AutomationRuleRepository
	logRepo  repository.AutomationLogRepository
}

// NewRulesUseCase construye el caso de uso.
func NewRulesUseCase(ruleRepo repository.AutomationRuleRepository, logRepo repository.AutomationLogRepository) *RulesUseCase {
	return &RulesUseCase{ruleRepo: ruleRepo, logRepo: logRepo}
}

// CreateRule valida el payload contra el esquema del tipo y persiste la
// regla. Un payload que no decodifica nunca llega a la base.
func (uc *RulesUseCase) CreateRule(ctx context.Context, userID string, req dto.CreateRuleRequest) (*entity.AutomationRule, error) {
	if userID == "" || req.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := DecodePayload(req.Type, req.Condition, req.Action); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rule := &entity.AutomationRule{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		Condition: req.Condition,
		Action:    req.Action,
		Active:    req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.ruleRepo.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// GetRule devuelve una regla del usuario.
func (uc *RulesUseCase) GetRule(ctx context.Context, userID, ruleID string) (*entity.AutomationRule, error) {
	rule, err := uc.ruleRepo.GetByID(userID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	return rule, nil
}

// ListRules reglas del usuario en orden de creación.
func (uc *RulesUseCase) ListRules(ctx context.Context, userID string, activeOnly bool) ([]*entity.AutomationRule, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ruleRepo.List(userID, activeOnly)
}

// SetRuleActive activa o desactiva una regla.
func (uc *RulesUseCase) SetRuleActive(ctx context.Context, userID, ruleID string, active bool) error {
	if _, err := uc.GetRule(ctx, userID, ruleID); err != nil {
		return err
	}
	return uc.ruleRepo.SetActive(userID, ruleID, active)
}

// DeleteRule elimina la regla. Los logs de auditoría quedan.
func (uc *RulesUseCase) DeleteRule(ctx context.Context, userID, ruleID string) error {
	if _, err := uc.GetRule(ctx, userID, ruleID); err != nil {
		return err
	}
	return uc.ruleRepo.Delete(userID, ruleID)
}

// ListRuleLogs historial de ejecuciones de una regla, del más reciente al
// más antiguo.
func (uc *RulesUseCase) ListRuleLogs(ctx context.Context, userID, ruleID string, limit, offset int) ([]*entity.AutomationLog, error) {
	if _, err := uc.GetRule(ctx, userID, ruleID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.logRepo.ListByRule(userID, ruleID, limit, offset)
}
