package repository

import "github.com/jhoicas/SellerHub-api/internal/domain/entity"

// ListingLinkRepository define el puerto para vínculos producto ↔ publicación.
type ListingLinkRepository interface {
	Create(link *entity.ListingLink) error
	GetByListingID(userID, listingID string) (*entity.ListingLink, error)
	ListByProduct(userID, productID string) ([]*entity.ListingLink, error)
	ListActiveByUser(userID string) ([]*entity.ListingLink, error)
	Update(link *entity.ListingLink) error
	Delete(userID, listingID string) error
}
