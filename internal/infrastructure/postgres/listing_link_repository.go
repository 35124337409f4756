package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

var _ repository.ListingLinkRepository = (*ListingLinkRepo)(nil)

// ListingLinkRepo implementación del puerto ListingLinkRepository sobre PostgreSQL.
type ListingLinkRepo struct {
	q Querier
}

// NewListingLinkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingLinkRepository(q Querier) *ListingLinkRepo {
	return &ListingLinkRepo{q: q}
}

const linkCols = `id, listing_id, product_id, user_id, listing_status, channel_quantity, channel_price, sync_status, last_sync_at, created_at`

// Create persiste un vínculo producto ↔ publicación.
func (r *ListingLinkRepo) Create(link *entity.ListingLink) error {
	query := `
		INSERT INTO listing_links (` + linkCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		link.ID, link.ListingID, link.ProductID, link.UserID, link.ListingStatus,
		link.ChannelQuantity, link.ChannelPrice, link.SyncStatus, link.LastSyncAt, link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert listing link: %w", err)
	}
	return nil
}

// GetByListingID obtiene el vínculo del usuario para una publicación.
func (r *ListingLinkRepo) GetByListingID(userID, listingID string) (*entity.ListingLink, error) {
	query := `SELECT ` + linkCols + `
		FROM listing_links WHERE user_id = $1 AND listing_id = $2`
	var l entity.ListingLink
	err := r.q.QueryRow(context.Background(), query, userID, listingID).Scan(
		&l.ID, &l.ListingID, &l.ProductID, &l.UserID, &l.ListingStatus,
		&l.ChannelQuantity, &l.ChannelPrice, &l.SyncStatus, &l.LastSyncAt, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing link: %w", err)
	}
	return &l, nil
}

// ListByProduct vínculos de un producto.
func (r *ListingLinkRepo) ListByProduct(userID, productID string) ([]*entity.ListingLink, error) {
	query := `SELECT ` + linkCols + `
		FROM listing_links WHERE user_id = $1 AND product_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("list listing links: %w", err)
	}
	return r.scanAll(rows)
}

// ListActiveByUser todos los vínculos del usuario cuya publicación no está
// cerrada (base de las operaciones batch de sincronización).
func (r *ListingLinkRepo) ListActiveByUser(userID string) ([]*entity.ListingLink, error) {
	query := `SELECT ` + linkCols + `
		FROM listing_links WHERE user_id = $1 AND listing_status <> 'closed' ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list active listing links: %w", err)
	}
	return r.scanAll(rows)
}

// Update actualiza estado, cantidad y precio cacheados del vínculo.
func (r *ListingLinkRepo) Update(link *entity.ListingLink) error {
	query := `
		UPDATE listing_links
		SET listing_status = $2, channel_quantity = $3, channel_price = $4, sync_status = $5, last_sync_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		link.ID, link.ListingStatus, link.ChannelQuantity, link.ChannelPrice, link.SyncStatus, link.LastSyncAt,
	)
	if err != nil {
		return fmt.Errorf("update listing link: %w", err)
	}
	return nil
}

// Delete elimina el vínculo del usuario para una publicación.
func (r *ListingLinkRepo) Delete(userID, listingID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM listing_links WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("delete listing link: %w", err)
	}
	return nil
}

func (r *ListingLinkRepo) scanAll(rows pgx.Rows) ([]*entity.ListingLink, error) {
	defer rows.Close()
	var list []*entity.ListingLink
	for rows.Next() {
		var l entity.ListingLink
		if err := rows.Scan(&l.ID, &l.ListingID, &l.ProductID, &l.UserID, &l.ListingStatus,
			&l.ChannelQuantity, &l.ChannelPrice, &l.SyncStatus, &l.LastSyncAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan listing link: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
