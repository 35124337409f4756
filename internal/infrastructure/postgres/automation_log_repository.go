package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

var _ repository.AutomationLogRepository = (*AutomationLogRepo)(nil)

// AutomationLogRepo implementación del puerto AutomationLogRepository sobre
// PostgreSQL. Append-only.
type AutomationLogRepo struct {
	q Querier
}

// NewAutomationLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAutomationLogRepository(q Querier) *AutomationLogRepo {
	return &AutomationLogRepo{q: q}
}

// Create inserta un registro de auditoría.
func (r *AutomationLogRepo) Create(log *entity.AutomationLog) error {
	query := `
		INSERT INTO automation_logs (id, rule_id, user_id, success, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.RuleID, log.UserID, log.Success, log.Detail, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert automation log: %w", err)
	}
	return nil
}

// ListByRule historial de una regla del más reciente al más antiguo.
func (r *AutomationLogRepo) ListByRule(userID, ruleID string, limit, offset int) ([]*entity.AutomationLog, error) {
	query := `
		SELECT id, rule_id, user_id, success, detail, created_at
		FROM automation_logs WHERE user_id = $1 AND rule_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, userID, ruleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list automation logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AutomationLog
	for rows.Next() {
		var l entity.AutomationLog
		if err := rows.Scan(&l.ID, &l.RuleID, &l.UserID, &l.Success, &l.Detail, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan automation log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
