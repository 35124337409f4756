package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

var _ repository.AutomationRuleRepository = (*AutomationRuleRepo)(nil)

// AutomationRuleRepo implementación del puerto AutomationRuleRepository sobre PostgreSQL.
type AutomationRuleRepo struct {
	q Querier
}

// NewAutomationRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAutomationRuleRepository(q Querier) *AutomationRuleRepo {
	return &AutomationRuleRepo{q: q}
}

const ruleCols = `id, user_id, name, type, condition, action, active, executions, created_at, updated_at`

// Create persiste una regla.
func (r *AutomationRuleRepo) Create(rule *entity.AutomationRule) error {
	query := `
		INSERT INTO automation_rules (` + ruleCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.UserID, rule.Name, rule.Type, rule.Condition, rule.Action,
		rule.Active, rule.Executions, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert automation rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla del usuario.
func (r *AutomationRuleRepo) GetByID(userID, id string) (*entity.AutomationRule, error) {
	query := `SELECT ` + ruleCols + `
		FROM automation_rules WHERE user_id = $1 AND id = $2`
	var rule entity.AutomationRule
	err := r.q.QueryRow(context.Background(), query, userID, id).Scan(
		&rule.ID, &rule.UserID, &rule.Name, &rule.Type, &rule.Condition, &rule.Action,
		&rule.Active, &rule.Executions, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get automation rule: %w", err)
	}
	return &rule, nil
}

// List reglas del usuario en orden de creación.
func (r *AutomationRuleRepo) List(userID string, activeOnly bool) ([]*entity.AutomationRule, error) {
	query := `SELECT ` + ruleCols + `
		FROM automation_rules WHERE user_id = $1`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list automation rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.AutomationRule
	for rows.Next() {
		var rule entity.AutomationRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.Name, &rule.Type, &rule.Condition,
			&rule.Action, &rule.Active, &rule.Executions, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan automation rule: %w", err)
		}
		list = append(list, &rule)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva una regla del usuario.
func (r *AutomationRuleRepo) SetActive(userID, id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE automation_rules SET active = $3, updated_at = now() WHERE user_id = $1 AND id = $2`,
		userID, id, active,
	)
	if err != nil {
		return fmt.Errorf("set rule active: %w", err)
	}
	return nil
}

// IncrementExecutions suma 1 al contador de ejecuciones exitosas.
func (r *AutomationRuleRepo) IncrementExecutions(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE automation_rules SET executions = executions + 1, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("increment rule executions: %w", err)
	}
	return nil
}

// Delete elimina la regla. Los logs asociados permanecen.
func (r *AutomationRuleRepo) Delete(userID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM automation_rules WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete automation rule: %w", err)
	}
	return nil
}
