package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// AutomationLogRepository define el puerto del registro de auditoría de
// ejecuciones de reglas. Append-only.
type AutomationLogRepository interface {
	Create(log *entity.AutomationLog) error
	ListByRule(userID, ruleID string, limit, offset int) ([]*entity.AutomationLog, error)
}
