// Package mercadolibre implementa el adaptador hacia la API oficial de
// Mercado Libre: lectura/escritura de publicaciones y señales competitivas
// de catálogo (price to win, competidores, ganador del Buy Box).
package mercadolibre

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/pkg/logger"
)

const defaultBaseURL = "https://api.mercadolibre.com"

var _ ports.ChannelClient = (*Client)(nil)

// Client adaptador HTTP de la API de Mercado Libre. Implementa
// ports.ChannelClient; cada llamada lleva el bearer token del vendedor.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient construye el cliente. baseURL vacío usa la API pública; el
// timeout acota cada llamada (el canal puede tardar).
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// itemResponse cuerpo de GET /items/{id}.
type itemResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"available_quantity"`
	SoldQuantity      int             `json:"sold_quantity"`
	Status            string          `json:"status"`
	CatalogProductID  string          `json:"catalog_product_id"`
	Permalink         string          `json:"permalink"`
}

// GetListing trae una publicación del canal.
func (c *Client) GetListing(ctx context.Context, token, listingID string) (*ports.Listing, error) {
	var body itemResponse
	if err := c.do(ctx, token, http.MethodGet, "/items/"+listingID, nil, &body); err != nil {
		return nil, err
	}
	return &ports.Listing{
		ID:                body.ID,
		Title:             body.Title,
		Price:             body.Price,
		AvailableQuantity: body.AvailableQuantity,
		SoldQuantity:      body.SoldQuantity,
		Status:            body.Status,
		CatalogProductID:  body.CatalogProductID,
		Permalink:         body.Permalink,
	}, nil
}

// UpdateListing modifica precio, cantidad y/o estado. Solo envía los campos
// no-nil del update.
func (c *Client) UpdateListing(ctx context.Context, token, listingID string, update ports.ListingUpdate) error {
	payload := map[string]any{}
	if update.Price != nil {
		payload["price"] = *update.Price
	}
	if update.Quantity != nil {
		payload["available_quantity"] = *update.Quantity
	}
	if update.Status != nil {
		payload["status"] = *update.Status
	}
	if len(payload) == 0 {
		return nil
	}
	return c.do(ctx, token, http.MethodPut, "/items/"+listingID, payload, nil)
}

// priceToWinResponse cuerpo de GET /items/{id}/price_to_win?version=v2.
type priceToWinResponse struct {
	ItemID           string           `json:"item_id"`
	CatalogProductID string           `json:"catalog_product_id"`
	CurrentPrice     decimal.Decimal  `json:"current_price"`
	PriceToWin       *decimal.Decimal `json:"price_to_win"`
	Status           string           `json:"status"`
	Reason           []string         `json:"reason"`
	Boosts           []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Status      string `json:"status"`
	} `json:"boosts"`
	CompetitorsSharingFirstPlace int    `json:"competitors_sharing_first_place"`
	VisitShare                   string `json:"visit_share"`
}

// GetPriceToWin consulta la señal competitiva del ítem. Un 404 aquí
// significa que el ítem no participa del catálogo: se devuelve
// HasCatalog=false, no error.
func (c *Client) GetPriceToWin(ctx context.Context, token, itemID string) (*ports.PriceToWinResult, error) {
	var body priceToWinResponse
	err := c.do(ctx, token, http.MethodGet, "/items/"+itemID+"/price_to_win?version=v2", nil, &body)
	if err != nil {
		if err == domain.ErrNotFound {
			return &ports.PriceToWinResult{ItemID: itemID, HasCatalog: false}, nil
		}
		return nil, err
	}

	result := &ports.PriceToWinResult{
		ItemID:                  itemID,
		HasCatalog:              body.CatalogProductID != "",
		CatalogProductID:        body.CatalogProductID,
		CurrentPrice:            body.CurrentPrice,
		PriceToWin:              body.PriceToWin,
		Status:                  body.Status,
		Reasons:                 body.Reason,
		CompetitorsSharingFirst: body.CompetitorsSharingFirstPlace,
		VisitShare:              body.VisitShare,
	}
	for _, b := range body.Boosts {
		result.Boosts = append(result.Boosts, ports.Boost{
			ID:          b.ID,
			Description: b.Description,
			Status:      b.Status,
		})
	}
	return result, nil
}

// competitorsResponse cuerpo de GET /products/{id}/items.
type competitorsResponse struct {
	Results []struct {
		ItemID   string          `json:"item_id"`
		SellerID int64           `json:"seller_id"`
		Price    decimal.Decimal `json:"price"`
		Quantity int             `json:"available_quantity"`
		Shipping struct {
			FreeShipping bool   `json:"free_shipping"`
			LogisticType string `json:"logistic_type"`
		} `json:"shipping"`
		ListingTypeID string `json:"listing_type_id"`
		Condition     string `json:"condition"`
	} `json:"results"`
}

// GetCompetitors trae todas las ofertas de una página de catálogo.
func (c *Client) GetCompetitors(ctx context.Context, token, catalogProductID string) ([]ports.CompetitorItem, error) {
	var body competitorsResponse
	if err := c.do(ctx, token, http.MethodGet, "/products/"+catalogProductID+"/items", nil, &body); err != nil {
		return nil, err
	}
	items := make([]ports.CompetitorItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, ports.CompetitorItem{
			ItemID:            r.ItemID,
			SellerID:          r.SellerID,
			Price:             r.Price,
			AvailableQuantity: r.Quantity,
			Condition:         r.Condition,
			ListingTypeID:     r.ListingTypeID,
			FreeShipping:      r.Shipping.FreeShipping,
			LogisticType:      r.Shipping.LogisticType,
		})
	}
	return items, nil
}

// productResponse cuerpo de GET /products/{id} (solo el buy box winner).
type productResponse struct {
	ID           string `json:"id"`
	BuyBoxWinner *struct {
		ItemID   string          `json:"item_id"`
		SellerID int64           `json:"seller_id"`
		Price    decimal.Decimal `json:"price"`
	} `json:"buy_box_winner"`
}

// GetBuyBoxWinner consulta el ganador actual del Buy Box del producto de
// catálogo. Sin ganador publicado devuelve ErrNotFound.
func (c *Client) GetBuyBoxWinner(ctx context.Context, token, catalogProductID string) (*ports.BuyBoxWinner, error) {
	var body productResponse
	if err := c.do(ctx, token, http.MethodGet, "/products/"+catalogProductID, nil, &body); err != nil {
		return nil, err
	}
	if body.BuyBoxWinner == nil {
		return nil, domain.ErrNotFound
	}
	return &ports.BuyBoxWinner{
		CatalogProductID: catalogProductID,
		ItemID:           body.BuyBoxWinner.ItemID,
		SellerID:         body.BuyBoxWinner.SellerID,
		Price:            body.BuyBoxWinner.Price,
	}, nil
}

// do arma la request, adjunta el bearer token y mapea el status HTTP a los
// errores del dominio: 401 → NotAuthenticated, 404 → NotFound, resto de 4xx
// → RemoteRejected, 5xx y fallos de transporte → RemoteUnavailable.
func (c *Client) do(ctx context.Context, token, method, path string, payload, out any) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("canal inaccesible")
		return domain.ErrRemoteUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrNotAuthenticated
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("error del canal")
		return domain.ErrRemoteUnavailable
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Bytes("body", raw).Msg("canal rechazó la operación")
		return domain.ErrRemoteRejected
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
