package dto

import "github.com/shopspring/decimal"

// Estados competitivos normalizados de una publicación en el catálogo.
const (
	CompetitiveWinning      = "WINNING"
	CompetitiveCompeting    = "COMPETING"
	CompetitiveSharingFirst = "SHARING_FIRST"
	CompetitiveListedOnly   = "LISTED_ONLY"
)

// Clasificación de boosts.
const (
	BoostActive        = "active"
	BoostOpportunity   = "opportunity"
	BoostInactive      = "inactive"
	BoostNotApplicable = "not-applicable"
)

// BoostDTO palanca competitiva clasificada.
type BoostDTO struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
}

// BlockingReasonDTO motivo por el que la publicación no compite, con la
// sugerencia de remediación asociada.
type BlockingReasonDTO struct {
	Code       string `json:"code"`
	Suggestion string `json:"suggestion"`
}

// CompetitiveSnapshotDTO foto competitiva de una publicación (efímera,
// cacheada por consulta; no es registro del sistema).
// HasCatalog=false indica que el ítem no participa del catálogo: resultado
// común y esperado, no un error.
type CompetitiveSnapshotDTO struct {
	ListingID        string              `json:"listing_id"`
	HasCatalog       bool                `json:"has_catalog"`
	CatalogProductID string              `json:"catalog_product_id,omitempty"`
	CurrentPrice     decimal.Decimal     `json:"current_price"`
	PriceToWin       *decimal.Decimal    `json:"price_to_win,omitempty"`
	PriceGap         *decimal.Decimal    `json:"price_gap,omitempty"`
	Status           string              `json:"status,omitempty"`
	BlockingReasons  []BlockingReasonDTO `json:"blocking_reasons,omitempty"`
	Boosts           []BoostDTO          `json:"boosts,omitempty"`
	SharingFirst     int                 `json:"sharing_first,omitempty"`
	VisitShare       string              `json:"visit_share,omitempty"`
}

// CompetitorDTO una oferta competidora, con su distancia porcentual al
// precio más bajo de la página de catálogo.
type CompetitorDTO struct {
	ItemID          string          `json:"item_id"`
	SellerID        int64           `json:"seller_id"`
	Price           decimal.Decimal `json:"price"`
	IsWinner        bool            `json:"is_winner"`
	DistancePercent decimal.Decimal `json:"distance_percent"`
	FreeShipping    bool            `json:"free_shipping"`
	Fulfillment     bool            `json:"fulfillment"`
	ListingTypeID   string          `json:"listing_type_id,omitempty"`
	Condition       string          `json:"condition,omitempty"`
}

// CompetitorsReportDTO listado ordenado por precio ascendente más
// estadísticas agregadas del mercado.
type CompetitorsReportDTO struct {
	CatalogProductID string          `json:"catalog_product_id"`
	Total            int             `json:"total"`
	Competitors      []CompetitorDTO `json:"competitors"`
	FreeShippingRate decimal.Decimal `json:"free_shipping_rate"`
	FulfillmentRate  decimal.Decimal `json:"fulfillment_rate"`
}
