package channelsync

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
	"github.com/jhoicas/SellerHub-api/pkg/logger"
)

// maxParallelSync límite de llamadas simultáneas al canal en operaciones batch.
const maxParallelSync = 4

// SyncUseCase reconcilia cantidades entre el libro local y el canal de ventas.
// Push y pull son operaciones independientes de una sola dirección: la verdad
// local (recepciones, ventas propias) se empuja; la verdad del canal (ventas
// directas en el canal) se importa.
type SyncUseCase struct {
	linkRepo    repository.ListingLinkRepository
	productRepo repository.ProductRepository
	ledger      *stock.LedgerUseCase
	channel     ports.ChannelClient
	tokens      ports.TokenProvider
	log         *logger.Logger
}

// NewSyncUseCase construye el caso de uso de sincronización.
func NewSyncUseCase(
	linkRepo repository.ListingLinkRepository,
	productRepo repository.ProductRepository,
	ledger *stock.LedgerUseCase,
	channel ports.ChannelClient,
	tokens ports.TokenProvider,
	log *logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		linkRepo:    linkRepo,
		productRepo: productRepo,
		ledger:      ledger,
		channel:     channel,
		tokens:      tokens,
		log:         log,
	}
}

// PushQuantity publica una cantidad en el canal para una publicación.
// En éxito marca el vínculo SYNCED y cachea la cantidad; en fallo remoto lo
// marca FAILED y el error se propaga al llamador (operación de un solo ítem).
func (uc *SyncUseCase) PushQuantity(ctx context.Context, userID, listingID string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidInput
	}
	link, err := uc.linkRepo.GetByListingID(userID, listingID)
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrNotFound
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return err
	}
	return uc.pushOne(ctx, token, link, quantity)
}

// pushOne empuja la cantidad y actualiza el estado del vínculo según resultado.
func (uc *SyncUseCase) pushOne(ctx context.Context, token string, link *entity.ListingLink, quantity int) error {
	err := uc.channel.UpdateListing(ctx, token, link.ListingID, ports.ListingUpdate{Quantity: &quantity})
	now := time.Now().UTC()
	link.LastSyncAt = &now
	if err != nil {
		link.SyncStatus = entity.SyncStatusFailed
		if uerr := uc.linkRepo.Update(link); uerr != nil {
			uc.log.Error().Err(uerr).Str("listing_id", link.ListingID).Msg("actualizar vínculo tras fallo de push")
		}
		return err
	}
	link.SyncStatus = entity.SyncStatusSynced
	link.ChannelQuantity = quantity
	return uc.linkRepo.Update(link)
}

// PushProductQuantity empuja el disponible actual del producto a todas sus
// publicaciones vinculadas. Los fallos por publicación se acumulan en el
// resultado; ninguno aborta el batch.
func (uc *SyncUseCase) PushProductQuantity(ctx context.Context, userID, productID string) (*dto.BatchSyncResultDTO, error) {
	record, err := uc.ledger.GetStock(ctx, userID, productID, "")
	if err != nil {
		return nil, err
	}
	links, err := uc.linkRepo.ListByProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchSyncResultDTO{Total: len(links), Details: make([]dto.PushResultDTO, 0, len(links))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSync)
	for _, link := range links {
		link := link
		g.Go(func() error {
			previous := link.ChannelQuantity
			err := uc.pushOne(gctx, token, link, record.Available)

			mu.Lock()
			defer mu.Unlock()
			detail := dto.PushResultDTO{ListingID: link.ListingID, PreviousQty: previous, NewQty: record.Available}
			if err != nil {
				detail.Success = false
				detail.Error = err.Error()
				result.Failed++
			} else {
				detail.Success = true
				result.Succeeded++
			}
			result.Details = append(result.Details, detail)
			// El fallo queda en el detalle; nunca se propaga al grupo.
			return nil
		})
	}
	_ = g.Wait()

	uc.log.Info().
		Str("product_id", productID).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("push de stock a canal")
	return result, nil
}

// PullQuantity lee la cantidad autoritativa publicada en el canal.
// Útil para detectar drift tras ventas fuera de plataforma.
func (uc *SyncUseCase) PullQuantity(ctx context.Context, userID, listingID string) (int, error) {
	link, err := uc.linkRepo.GetByListingID(userID, listingID)
	if err != nil {
		return 0, err
	}
	if link == nil {
		return 0, domain.ErrNotFound
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return 0, err
	}
	listing, err := uc.channel.GetListing(ctx, token, listingID)
	if err != nil {
		return 0, err
	}
	return listing.AvailableQuantity, nil
}

// ImportAllFromChannel importa las cantidades del canal para todos los
// vínculos activos del usuario y las aplica al libro como AJUSTE con razón
// "channel-import": la reconciliación externa también deja rastro auditable
// y respeta el invariante de la proyección (las reservas no se tocan).
func (uc *SyncUseCase) ImportAllFromChannel(ctx context.Context, userID string) (*dto.BatchSyncResultDTO, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	links, err := uc.linkRepo.ListActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchSyncResultDTO{Total: len(links), Details: make([]dto.PushResultDTO, 0, len(links))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSync)
	for _, link := range links {
		link := link
		g.Go(func() error {
			detail := uc.importOne(gctx, token, userID, link)

			mu.Lock()
			defer mu.Unlock()
			if detail.Success {
				result.Succeeded++
			} else {
				result.Failed++
			}
			result.Details = append(result.Details, detail)
			return nil
		})
	}
	_ = g.Wait()

	uc.log.Info().
		Str("user_id", userID).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("importación de stock desde canal")
	return result, nil
}

// importOne trae la cantidad remota de una publicación y ajusta el libro
// para que el disponible local la refleje.
func (uc *SyncUseCase) importOne(ctx context.Context, token, userID string, link *entity.ListingLink) dto.PushResultDTO {
	detail := dto.PushResultDTO{ListingID: link.ListingID}

	listing, err := uc.channel.GetListing(ctx, token, link.ListingID)
	if err != nil {
		detail.Error = err.Error()
		uc.markFailed(link)
		return detail
	}
	remoteQty := listing.AvailableQuantity

	record, err := uc.ledger.GetStock(ctx, userID, link.ProductID, "")
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.PreviousQty = record.Available
	detail.NewQty = remoteQty

	if record.Available != remoteQty {
		// ADJUST absoluto: nuevo current = reservado + cantidad remota, de
		// modo que el disponible resultante iguale al canal.
		_, err = uc.ledger.ApplyMovement(ctx, stock.MovementInput{
			UserID:    userID,
			ProductID: link.ProductID,
			Kind:      entity.MovementAdjust,
			Quantity:  record.Reserved + remoteQty,
			Reason:    entity.ReasonChannelImport,
			Document:  link.ListingID,
		})
		if err != nil {
			detail.Error = err.Error()
			return detail
		}
	}

	now := time.Now().UTC()
	link.ChannelQuantity = remoteQty
	link.SyncStatus = entity.SyncStatusSynced
	link.LastSyncAt = &now
	if err := uc.linkRepo.Update(link); err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.Success = true
	return detail
}

func (uc *SyncUseCase) markFailed(link *entity.ListingLink) {
	link.SyncStatus = entity.SyncStatusFailed
	if err := uc.linkRepo.Update(link); err != nil {
		uc.log.Error().Err(err).Str("listing_id", link.ListingID).Msg("marcar vínculo FAILED")
	}
}
