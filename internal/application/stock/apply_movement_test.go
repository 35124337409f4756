package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El TxRunner serializa con un mutex: emula el bloqueo de
// fila de la base (SELECT FOR UPDATE) que evita movimientos intercalados.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	records   map[string]entity.StockRecord
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		records:  make(map[string]entity.StockRecord),
	}
}

func key(productID, variantID string) string { return productID + "|" + variantID }

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *memProductRepo) GetByUserAndSKU(userID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.UserID == userID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	asc, _ := r.ListByProductAsc(productID)
	var out []*entity.StockMovement
	for i := len(asc) - 1; i >= 0; i-- {
		out = append(out, asc[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
func (r *memMovementRepo) ListByProductAsc(productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memRecordRepo struct{ s *memStore }

func (r *memRecordRepo) Get(productID, variantID string) (*entity.StockRecord, error) {
	if rec, ok := r.s.records[key(productID, variantID)]; ok {
		copia := rec
		return &copia, nil
	}
	return &entity.StockRecord{ProductID: productID, VariantID: variantID}, nil
}
func (r *memRecordRepo) GetForUpdate(productID, variantID string) (*entity.StockRecord, error) {
	return r.Get(productID, variantID)
}
func (r *memRecordRepo) Upsert(record *entity.StockRecord) error {
	r.s.records[key(record.ProductID, record.VariantID)] = *record
	return nil
}
func (r *memRecordRepo) ListBelowMinimum(userID string) ([]repository.BelowMinimumResult, error) {
	var out []repository.BelowMinimumResult
	for _, rec := range r.s.records {
		p, ok := r.s.products[rec.ProductID]
		if !ok || p.UserID != userID || !rec.BelowMinimum() {
			continue
		}
		out = append(out, repository.BelowMinimumResult{Product: *p, Record: rec, Deficit: rec.Deficit()})
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&memMovementRepo{r.s}, &memRecordRepo{r.s})
}

func newLedger(s *memStore) *stock.LedgerUseCase {
	return stock.NewLedgerUseCase(
		&memTxRunner{s}, &memProductRepo{s}, &memMovementRepo{s}, &memRecordRepo{s},
	)
}

func seedProduct(s *memStore, id, userID string) {
	s.products[id] = &entity.Product{ID: id, UserID: userID, SKU: "SKU-" + id, Status: entity.ProductStatusActive}
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_RegistraMovimientoYProyeccion(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)

	rec, err := uc.ApplyMovement(context.Background(), stock.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Kind:      entity.MovementReceipt,
		Quantity:  25,
		Reason:    "compra inicial",
	})
	require.NoError(t, err)

	assert.Equal(t, 25, rec.Current)
	assert.Equal(t, 25, rec.Available)
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementReceipt, s.movements[0].Kind)
	assert.NotEmpty(t, s.movements[0].ID)
	assert.Equal(t, "user-1", s.movements[0].UserID)
}

func TestApplyMovement_AjusteACeroRegistraElAgotamiento(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	s.records[key("prod-1", "")] = entity.StockRecord{
		ProductID: "prod-1", Current: 5, Available: 5,
	}
	uc := newLedger(s)

	rec, err := uc.ApplyMovement(context.Background(), stock.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Kind:      entity.MovementAdjust,
		Quantity:  0,
		Reason:    "recuento en cero",
	})
	require.NoError(t, err, "solo ADJUST admite cantidad cero")

	assert.Zero(t, rec.Current)
	assert.Zero(t, rec.Available)
	require.Len(t, s.movements, 1)
	assert.Zero(t, s.movements[0].Quantity)
}

func TestApplyMovement_ProductoAjenoRespondeNotFound(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)

	_, err := uc.ApplyMovement(context.Background(), stock.MovementInput{
		UserID:    "user-2",
		ProductID: "prod-1",
		Kind:      entity.MovementReceipt,
		Quantity:  5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"producto de otro usuario responde NotFound, nunca Forbidden")
	assert.Empty(t, s.movements, "un movimiento rechazado no deja rastro")
}

func TestApplyMovement_ValidacionesPrevias(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, stock.MovementInput{ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin usuario")

	_, err = uc.ApplyMovement(ctx, stock.MovementInput{UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement, "cantidad cero")

	_, err = uc.ApplyMovement(ctx, stock.MovementInput{UserID: "user-1", ProductID: "prod-1", Kind: "TRANSFER", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement, "tipo desconocido")
}

func TestApplyMovement_IssueRechazadoNoPersisteNada(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 3,
	})
	require.NoError(t, err)

	_, err = uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementIssue, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, s.movements, 1, "el ISSUE fallido no se agrega al log")
	rec, _ := uc.GetStock(ctx, "user-1", "prod-1", "")
	assert.Equal(t, 3, rec.Available, "la proyección no cambia ante un rechazo")
}

// Dos ISSUE concurrentes sobre el mismo producto no pueden sobrevender: el
// chequeo available >= q y el descuento ocurren bajo el mismo bloqueo.
func TestApplyMovement_ConcurrenciaSinSobreventa(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 10,
	})
	require.NoError(t, err)

	const intentos = 30
	var wg sync.WaitGroup
	errs := make(chan error, intentos)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyMovement(ctx, stock.MovementInput{
				UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementIssue, Quantity: 1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insuficiente int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			insuficiente++
		}
	}
	assert.Equal(t, 10, ok, "solo caben 10 salidas de 1 unidad")
	assert.Equal(t, intentos-10, insuficiente)

	rec, err := uc.GetStock(ctx, "user-1", "prod-1", "")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Available)
	assert.Equal(t, 0, rec.Current)
	assert.True(t, rec.Consistent())
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStock_SinMovimientosDevuelveCero(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)

	rec, err := uc.GetStock(context.Background(), "user-1", "prod-1", "")
	require.NoError(t, err)
	assert.Zero(t, rec.Current)
	assert.Zero(t, rec.Available)
	assert.Zero(t, rec.Reserved)
}

func TestSetMinimum_NoGeneraMovimiento(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	rec, err := uc.SetMinimum(ctx, "user-1", "prod-1", "", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.Minimum)
	assert.Empty(t, s.movements, "el mínimo es metadato, no forma parte del fold")

	_, err = uc.SetMinimum(ctx, "user-1", "prod-1", "", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBelowMinimum_ReportaDeficit(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 2,
	})
	require.NoError(t, err)
	_, err = uc.SetMinimum(ctx, "user-1", "prod-1", "", 10)
	require.NoError(t, err)

	results, err := uc.ListBelowMinimum(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prod-1", results[0].Product.ID)
	assert.Equal(t, 8, results[0].Deficit)
}

func TestVerifyProjection_CoincideConElReplay(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	for _, in := range []stock.MovementInput{
		{UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReceipt, Quantity: 50},
		{UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementReserve, Quantity: 20},
		{UserID: "user-1", ProductID: "prod-1", Kind: entity.MovementIssue, Quantity: 10},
	} {
		_, err := uc.ApplyMovement(ctx, in)
		require.NoError(t, err)
	}

	cached, replayed, err := uc.VerifyProjection(ctx, "user-1", "prod-1", "")
	require.NoError(t, err)
	assert.Equal(t, cached.Current, replayed.Current)
	assert.Equal(t, cached.Available, replayed.Available)
	assert.Equal(t, cached.Reserved, replayed.Reserved)
	assert.Equal(t, 40, cached.Current)
	assert.Equal(t, 20, cached.Available)
	assert.Equal(t, 20, cached.Reserved)
}

func TestVerifyProjection_SoloMovimientosDeLaVariante(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "prod-1", "user-1")
	uc := newLedger(s)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", VariantID: "talle-m", Kind: entity.MovementReceipt, Quantity: 5,
	})
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, stock.MovementInput{
		UserID: "user-1", ProductID: "prod-1", VariantID: "talle-l", Kind: entity.MovementReceipt, Quantity: 9,
	})
	require.NoError(t, err)

	cached, replayed, err := uc.VerifyProjection(ctx, "user-1", "prod-1", "talle-m")
	require.NoError(t, err)
	assert.Equal(t, 5, cached.Current)
	assert.Equal(t, 5, replayed.Current, "el replay filtra por variante")
}
