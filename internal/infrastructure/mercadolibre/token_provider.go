package mercadolibre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/infrastructure/postgres"
)

// expiryMargin margen antes del vencimiento real: un token a punto de
// expirar se trata como vencido para no fallar a mitad de un batch.
const expiryMargin = 60 * time.Second

var _ ports.TokenProvider = (*DBTokenProvider)(nil)

// DBTokenProvider lee la credencial del canal desde la base. La emisión y
// renovación del token (flujo OAuth) ocurre fuera de este servicio; aquí
// solo se valida vigencia.
type DBTokenProvider struct {
	q postgres.Querier
}

// NewDBTokenProvider construye el proveedor sobre un pool o tx.
func NewDBTokenProvider(q postgres.Querier) *DBTokenProvider {
	return &DBTokenProvider{q: q}
}

// GetValidCredential devuelve el bearer token vigente del usuario.
// Sin credencial o vencida responde ErrNotAuthenticated.
func (p *DBTokenProvider) GetValidCredential(ctx context.Context, userID string) (string, error) {
	var token string
	var expiresAt time.Time
	err := p.q.QueryRow(ctx,
		`SELECT access_token, expires_at FROM channel_credentials WHERE user_id = $1`,
		userID,
	).Scan(&token, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotAuthenticated
		}
		return "", fmt.Errorf("get channel credential: %w", err)
	}
	if time.Now().Add(expiryMargin).After(expiresAt) {
		return "", domain.ErrNotAuthenticated
	}
	return token, nil
}

// SaveCredential guarda o reemplaza la credencial del usuario (la carga el
// proceso externo que completa el flujo OAuth).
func (p *DBTokenProvider) SaveCredential(ctx context.Context, userID, accessToken string, expiresAt time.Time) error {
	_, err := p.q.Exec(ctx, `
		INSERT INTO channel_credentials (user_id, access_token, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`,
		userID, accessToken, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("save channel credential: %w", err)
	}
	return nil
}
