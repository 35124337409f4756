package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// AutomationRuleRepository define el puerto de persistencia para reglas.
type AutomationRuleRepository interface {
	Create(rule *entity.AutomationRule) error
	GetByID(userID, id string) (*entity.AutomationRule, error)
	// List en orden de creación (el motor no garantiza otro orden).
	List(userID string, activeOnly bool) ([]*entity.AutomationRule, error)
	SetActive(userID, id string, active bool) error
	IncrementExecutions(id string) error
	Delete(userID, id string) error
}
