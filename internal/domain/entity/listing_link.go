package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de sincronización de un vínculo producto ↔ publicación.
const (
	SyncStatusSynced  = "SYNCED"
	SyncStatusPending = "PENDING"
	SyncStatusFailed  = "FAILED"
)

// Estados de una publicación en el canal.
const (
	ListingStatusActive = "active"
	ListingStatusPaused = "paused"
	ListingStatusClosed = "closed"
)

// ListingLink vincula un producto local con una publicación del canal
// (ej. un ítem MLB de Mercado Libre). Guarda la última cantidad y el último
// precio conocidos en el canal para detectar drift sin consultarlo.
type ListingLink struct {
	ID              string
	ListingID       string // identificador del ítem en el canal (MLB...)
	ProductID       string
	UserID          string
	ListingStatus   string
	ChannelQuantity int             // última cantidad conocida en el canal
	ChannelPrice    decimal.Decimal // último precio conocido en el canal
	SyncStatus      string
	LastSyncAt      *time.Time
	CreatedAt       time.Time
}
