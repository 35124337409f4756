package dto

import (
	"encoding/json"
	"time"
)

// CreateRuleRequest alta de regla de automatización. Condition y Action se
// validan y decodifican a payloads tipados según Type al crear la regla.
type CreateRuleRequest struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Condition json.RawMessage `json:"condition"`
	Action    json.RawMessage `json:"action"`
	Active    bool            `json:"active"`
}

// RuleDTO vista de una regla.
type RuleDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Condition  json.RawMessage `json:"condition"`
	Action     json.RawMessage `json:"action"`
	Active     bool            `json:"active"`
	Executions int             `json:"executions"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Estados finales de la evaluación de una regla.
const (
	RuleStateSkipped        = "SKIPPED"
	RuleStateActionExecuted = "ACTION_EXECUTED"
	RuleStateActionFailed   = "ACTION_FAILED"
)

// RuleExecutionDetailDTO resultado de la evaluación de una regla.
type RuleExecutionDetailDTO struct {
	RuleID  string          `json:"rule_id"`
	Name    string          `json:"name"`
	State   string          `json:"state"`
	Message string          `json:"message,omitempty"`
	Actions json.RawMessage `json:"actions,omitempty"`
}

// ExecutionSummaryDTO resumen de un batch de ejecución de reglas.
type ExecutionSummaryDTO struct {
	Total     int                      `json:"total"`
	Executed  int                      `json:"executed"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	Details   []RuleExecutionDetailDTO `json:"details"`
}
