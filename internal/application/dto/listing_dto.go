package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinkListingRequest asocia una publicación del canal a un producto local.
type LinkListingRequest struct {
	ListingID string `json:"listing_id"`
	ProductID string `json:"product_id"`
}

// ListingLinkDTO vista de un vínculo producto ↔ publicación.
type ListingLinkDTO struct {
	ListingID       string     `json:"listing_id"`
	ProductID       string     `json:"product_id"`
	ListingStatus   string          `json:"listing_status"`
	ChannelQuantity int             `json:"channel_quantity"`
	ChannelPrice    decimal.Decimal `json:"channel_price"`
	SyncStatus      string          `json:"sync_status"`
	LastSyncAt      *time.Time      `json:"last_sync_at,omitempty"`
}

// PushResultDTO resultado por publicación de una sincronización.
type PushResultDTO struct {
	ListingID   string `json:"listing_id"`
	Success     bool   `json:"success"`
	PreviousQty int    `json:"previous_quantity,omitempty"`
	NewQty      int    `json:"new_quantity,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BatchSyncResultDTO resumen de una operación batch: los fallos por ítem se
// acumulan aquí, nunca abortan el batch completo.
type BatchSyncResultDTO struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Details   []PushResultDTO `json:"details"`
}
