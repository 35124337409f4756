package entity

import (
	"encoding/json"
	"time"
)

// Tipos de regla de automatización.
const (
	RuleTypePrice        = "PRICE"
	RuleTypeBuyBox       = "BUYBOX"
	RuleTypeStock        = "STOCK"
	RuleTypeReactivation = "REACTIVATION"
)

// AutomationRule es una regla declarativa: tipo × condición × acción.
// Condition y Action se persisten como JSON pero se decodifican a structs
// tipados al cargar la regla (ver application/automation), nunca se
// inspeccionan ad hoc en ejecución.
type AutomationRule struct {
	ID         string
	UserID     string
	Name       string
	Type       string
	Condition  json.RawMessage
	Action     json.RawMessage
	Active     bool
	Executions int // contador de ejecuciones exitosas
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
