package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidMovement   = errors.New("movimiento de stock inválido")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotAuthenticated  = errors.New("sin credencial válida del canal")
	ErrRemoteUnavailable = errors.New("canal remoto no disponible")
	ErrRemoteRejected    = errors.New("operación rechazada por el canal")
)
