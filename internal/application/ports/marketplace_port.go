package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Listing es la vista normalizada de una publicación del canal.
type Listing struct {
	ID                string
	Title             string
	Price             decimal.Decimal
	AvailableQuantity int
	SoldQuantity      int
	Status            string // active, paused, closed
	CatalogProductID  string // vacío si no participa del catálogo
	Permalink         string
}

// ListingUpdate campos opcionales a modificar en una publicación.
// Los punteros en nil no se envían.
type ListingUpdate struct {
	Price    *decimal.Decimal
	Quantity *int
	Status   *string
}

// Boost palanca competitiva no relacionada con precio (envío gratis,
// fulfillment, cuotas sin interés). Status según el canal: boosted,
// opportunity, not_boosted o not_apply.
type Boost struct {
	ID          string
	Description string
	Status      string
}

// PriceToWinResult respuesta cruda normalizada de /items/{id}/price_to_win.
// HasCatalog=false es un resultado esperado (ítem fuera del catálogo), no un error.
type PriceToWinResult struct {
	ItemID                  string
	HasCatalog              bool
	CatalogProductID        string
	CurrentPrice            decimal.Decimal
	PriceToWin              *decimal.Decimal // nil si el canal no lo informa
	Status                  string           // winning, competing, sharing_first_place, listed
	Reasons                 []string         // motivos de bloqueo cuando status = listed
	Boosts                  []Boost
	CompetitorsSharingFirst int
	VisitShare              string
}

// CompetitorItem una oferta competidora en la misma página de catálogo.
type CompetitorItem struct {
	ItemID            string
	SellerID          int64
	Price             decimal.Decimal
	AvailableQuantity int
	Condition         string
	ListingTypeID     string
	FreeShipping      bool
	LogisticType      string // "fulfillment" = logística premium del canal
}

// BuyBoxWinner ganador actual del Buy Box de un producto de catálogo.
type BuyBoxWinner struct {
	CatalogProductID string
	ItemID           string
	SellerID         int64
	Price            decimal.Decimal
}

// ChannelClient define el puerto de salida hacia el canal de ventas remoto
// (Mercado Libre). Toda llamada requiere la credencial bearer del vendedor y
// puede fallar con ErrNotAuthenticated (401), ErrNotFound (404),
// ErrRemoteRejected (error de negocio) o ErrRemoteUnavailable (transporte).
type ChannelClient interface {
	GetListing(ctx context.Context, token, listingID string) (*Listing, error)
	UpdateListing(ctx context.Context, token, listingID string, update ListingUpdate) error
	GetPriceToWin(ctx context.Context, token, itemID string) (*PriceToWinResult, error)
	GetCompetitors(ctx context.Context, token, catalogProductID string) ([]CompetitorItem, error)
	GetBuyBoxWinner(ctx context.Context, token, catalogProductID string) (*BuyBoxWinner, error)
}

// TokenProvider define el puerto del proveedor de credenciales del canal.
// Devuelve un bearer token vigente para el usuario o ErrNotAuthenticated.
type TokenProvider interface {
	GetValidCredential(ctx context.Context, userID string) (string, error)
}
