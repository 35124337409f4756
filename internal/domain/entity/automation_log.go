package entity

import (
	"encoding/json"
	"time"
)

// AutomationLog es el registro de auditoría de una ejecución de regla.
// Append-only: permite inspeccionar qué hizo el motor y cuándo, y sirve de
// base para un futuro chequeo de cooldown sin cambiar el modelo de datos.
type AutomationLog struct {
	ID        string
	RuleID    string
	UserID    string
	Success   bool
	Detail    json.RawMessage
	CreatedAt time.Time
}
