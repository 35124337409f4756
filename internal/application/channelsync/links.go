package channelsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
)

// LinkListing asocia una publicación del canal a un producto local. Consulta
// la publicación remota para cachear su estado, cantidad y precio iniciales;
// si el canal no responde, el vínculo igual se crea en estado PENDING.
func (uc *SyncUseCase) LinkListing(ctx context.Context, userID, listingID, productID string) (*entity.ListingLink, error) {
	if userID == "" || listingID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if existing, err := uc.linkRepo.GetByListingID(userID, listingID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	link := &entity.ListingLink{
		ID:            uuid.New().String(),
		ListingID:     listingID,
		ProductID:     productID,
		UserID:        userID,
		ListingStatus: entity.ListingStatusActive,
		SyncStatus:    entity.SyncStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if token, err := uc.tokens.GetValidCredential(ctx, userID); err == nil {
		if listing, err := uc.channel.GetListing(ctx, token, listingID); err == nil {
			link.ListingStatus = listing.Status
			link.ChannelQuantity = listing.AvailableQuantity
			link.ChannelPrice = listing.Price
		}
	}

	if err := uc.linkRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

// UnlinkListing elimina el vínculo. La publicación remota no se toca: el
// borrado de vínculos es siempre explícito, nunca implícito.
func (uc *SyncUseCase) UnlinkListing(ctx context.Context, userID, listingID string) error {
	link, err := uc.linkRepo.GetByListingID(userID, listingID)
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrNotFound
	}
	return uc.linkRepo.Delete(userID, listingID)
}

// ListLinks vínculos del producto, con última cantidad conocida y estado.
func (uc *SyncUseCase) ListLinks(ctx context.Context, userID, productID string) ([]*entity.ListingLink, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return uc.linkRepo.ListByProduct(userID, productID)
}
