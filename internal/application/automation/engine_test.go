package automation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SellerHub-api/internal/application/automation"
	"github.com/jhoicas/SellerHub-api/internal/application/channelsync"
	"github.com/jhoicas/SellerHub-api/internal/application/competition"
	"github.com/jhoicas/SellerHub-api/internal/application/dto"
	"github.com/jhoicas/SellerHub-api/internal/application/ports"
	"github.com/jhoicas/SellerHub-api/internal/application/stock"
	"github.com/jhoicas/SellerHub-api/internal/domain"
	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
	"github.com/jhoicas/SellerHub-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	records   map[string]entity.StockRecord
	links     map[string]*entity.ListingLink
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		records:  make(map[string]entity.StockRecord),
		links:    make(map[string]*entity.ListingLink),
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
	return nil, nil
}
func (r *memProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
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
		product, ok := r.s.products[rec.ProductID]
		if !ok || product.UserID != userID || !rec.BelowMinimum() {
			continue
		}
		out = append(out, repository.BelowMinimumResult{
			Product: *product,
			Record:  rec,
			Deficit: rec.Deficit(),
		})
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

type memLinkRepo struct {
	mu sync.Mutex
	s  *memStore
}

func (r *memLinkRepo) Create(link *entity.ListingLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.s.links[link.ListingID]; ok {
		return domain.ErrDuplicate
	}
	r.s.links[link.ListingID] = link
	return nil
}
func (r *memLinkRepo) GetByListingID(userID, listingID string) (*entity.ListingLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.s.links[listingID]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	return l, nil
}
func (r *memLinkRepo) ListByProduct(userID, productID string) ([]*entity.ListingLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ListingLink
	for _, l := range r.s.links {
		if l.UserID == userID && l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memLinkRepo) ListActiveByUser(userID string) ([]*entity.ListingLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ListingLink
	for _, l := range r.s.links {
		if l.UserID == userID && l.ListingStatus != entity.ListingStatusClosed {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memLinkRepo) Update(link *entity.ListingLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.links[link.ListingID] = link
	return nil
}
func (r *memLinkRepo) Delete(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.s.links, listingID)
	return nil
}

type memRuleRepo struct {
	mu    sync.Mutex
	rules []*entity.AutomationRule
	execs map[string]int
}

func newMemRuleRepo() *memRuleRepo { return &memRuleRepo{execs: make(map[string]int)} }

func (r *memRuleRepo) Create(rule *entity.AutomationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	return nil
}
func (r *memRuleRepo) GetByID(userID, id string) (*entity.AutomationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.ID == id && rule.UserID == userID {
			return rule, nil
		}
	}
	return nil, nil
}
func (r *memRuleRepo) List(userID string, activeOnly bool) ([]*entity.AutomationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AutomationRule
	for _, rule := range r.rules {
		if rule.UserID != userID {
			continue
		}
		if activeOnly && !rule.Active {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}
func (r *memRuleRepo) SetActive(userID, id string, active bool) error {
	rule, _ := r.GetByID(userID, id)
	if rule == nil {
		return domain.ErrNotFound
	}
	rule.Active = active
	return nil
}
func (r *memRuleRepo) IncrementExecutions(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs[id]++
	return nil
}
func (r *memRuleRepo) Delete(userID, id string) error { return nil }

type memLogRepo struct {
	mu      sync.Mutex
	entries []*entity.AutomationLog
}

func (r *memLogRepo) Create(log *entity.AutomationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return nil
}
func (r *memLogRepo) ListByRule(userID, ruleID string, limit, offset int) ([]*entity.AutomationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AutomationLog
	for _, e := range r.entries {
		if e.UserID == userID && e.RuleID == ruleID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeChannel canal remoto en memoria: publicaciones, señales de price_to_win
// y fallos configurables por publicación.
type fakeChannel struct {
	mu          sync.Mutex
	listings    map[string]*ports.Listing
	priceToWin  map[string]*ports.PriceToWinResult
	failUpdates map[string]bool
	updates     map[string]ports.ListingUpdate // última actualización por publicación
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		listings:    make(map[string]*ports.Listing),
		priceToWin:  make(map[string]*ports.PriceToWinResult),
		failUpdates: make(map[string]bool),
		updates:     make(map[string]ports.ListingUpdate),
	}
}

func (f *fakeChannel) GetListing(ctx context.Context, token, listingID string) (*ports.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[listingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copia := *l
	return &copia, nil
}
func (f *fakeChannel) UpdateListing(ctx context.Context, token, listingID string, update ports.ListingUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates[listingID] {
		return domain.ErrRemoteUnavailable
	}
	f.updates[listingID] = update
	if l, ok := f.listings[listingID]; ok {
		if update.Quantity != nil {
			l.AvailableQuantity = *update.Quantity
		}
		if update.Price != nil {
			l.Price = *update.Price
		}
		if update.Status != nil {
			l.Status = *update.Status
		}
	}
	return nil
}
func (f *fakeChannel) GetPriceToWin(ctx context.Context, token, itemID string) (*ports.PriceToWinResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.priceToWin[itemID]; ok {
		copia := *r
		return &copia, nil
	}
	return nil, domain.ErrNotFound
}
func (f *fakeChannel) GetCompetitors(ctx context.Context, token, catalogProductID string) ([]ports.CompetitorItem, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeChannel) GetBuyBoxWinner(ctx context.Context, token, catalogProductID string) (*ports.BuyBoxWinner, error) {
	return nil, domain.ErrNotFound
}

type fakeTokens struct{ err error }

func (f *fakeTokens) GetValidCredential(ctx context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "test-token", nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type engineFixture struct {
	store   *memStore
	rules   *memRuleRepo
	logs    *memLogRepo
	channel *fakeChannel
	engine  *automation.Engine
}

func newEngineFixture(t *testing.T, tokens ports.TokenProvider) *engineFixture {
	t.Helper()
	s := newMemStore()
	channel := newFakeChannel()
	linkRepo := &memLinkRepo{s: s}
	rules := newMemRuleRepo()
	logs := &memLogRepo{}
	log := logger.New(logger.Config{Env: "production", Level: "error"})

	ledger := stock.NewLedgerUseCase(&memTxRunner{s}, &memProductRepo{s}, &memMovementRepo{s}, &memRecordRepo{s})
	syncUC := channelsync.NewSyncUseCase(linkRepo, &memProductRepo{s}, ledger, channel, tokens, log)
	signals := competition.NewSignalsUseCase(linkRepo, channel, tokens)
	engine := automation.NewEngine(rules, logs, linkRepo, ledger, syncUC, signals, channel, tokens, log)

	return &engineFixture{store: s, rules: rules, logs: logs, channel: channel, engine: engine}
}

func (f *engineFixture) seedProduct(id string, available, minimum int) {
	f.store.products[id] = &entity.Product{ID: id, UserID: "user-1", Status: entity.ProductStatusActive}
	f.store.records[key(id, "")] = entity.StockRecord{
		ProductID: id, Current: available, Available: available, Minimum: minimum,
	}
}

func (f *engineFixture) seedLink(listingID, productID, listingStatus string) {
	f.store.links[listingID] = &entity.ListingLink{
		ID: "link-" + listingID, ListingID: listingID, ProductID: productID,
		UserID: "user-1", ListingStatus: listingStatus,
	}
	f.channel.listings[listingID] = &ports.Listing{ID: listingID, Status: listingStatus}
}

func (f *engineFixture) seedSignal(listingID, status string, current float64, priceToWin *float64) {
	result := &ports.PriceToWinResult{
		ItemID:           listingID,
		HasCatalog:       true,
		CatalogProductID: "MLB-CAT-1",
		CurrentPrice:     decimal.NewFromFloat(current),
		Status:           status,
	}
	if priceToWin != nil {
		ptw := decimal.NewFromFloat(*priceToWin)
		result.PriceToWin = &ptw
	}
	f.channel.priceToWin[listingID] = result
}

func (f *engineFixture) addRule(id, ruleType, condition, action string) {
	f.rules.rules = append(f.rules.rules, &entity.AutomationRule{
		ID: id, UserID: "user-1", Name: "regla " + id, Type: ruleType,
		Condition: raw(condition), Action: raw(action), Active: true,
	})
}

func floatPtr(v float64) *float64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Reglas PRICE
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_PriceRule_ReduceYDejaRastro(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, nil)
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Executed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	require.Len(t, summary.Details, 1)
	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[0].State)

	update, ok := f.channel.updates["MLB1"]
	require.True(t, ok, "el canal debe recibir la actualización de precio")
	require.NotNil(t, update.Price)
	assert.Equal(t, "90", update.Price.String())

	link := f.store.links["MLB1"]
	assert.Equal(t, "90", link.ChannelPrice.String(),
		"el precio empujado queda cacheado en el vínculo")
	require.NotNil(t, link.LastSyncAt)

	assert.Equal(t, 1, f.rules.execs["rule-1"], "el contador sube solo en éxito")
	require.Len(t, f.logs.entries, 1)
	assert.True(t, f.logs.entries[0].Success)
	assert.Equal(t, "rule-1", f.logs.entries[0].RuleID)
}

func TestEngine_PriceRule_SinCatalogoQuedaSkipped(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.channel.priceToWin["MLB1"] = &ports.PriceToWinResult{ItemID: "MLB1", HasCatalog: false}
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, summary.Details, 1)
	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State,
		"fuera del catálogo la condición no es evaluable, nunca es fallo")
	assert.Zero(t, summary.Executed)
	assert.Zero(t, f.rules.execs["rule-1"])
	require.Len(t, f.logs.entries, 1, "SKIPPED también queda en la auditoría")
	assert.False(t, f.logs.entries[0].Success)
}

func TestEngine_PriceRule_GanandoNoSeAjusta(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "winning", 100, nil)
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State)
	assert.Empty(t, f.channel.updates)
}

func TestEngine_PriceRule_RespetaElPiso(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, nil)
	f.addRule("rule-1", entity.RuleTypePrice, `{}`,
		`{"adjust":"reduce","percent":50,"min_price":80,"listing_ids":["MLB1"]}`)

	_, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	update := f.channel.updates["MLB1"]
	require.NotNil(t, update.Price)
	assert.Equal(t, "80", update.Price.String(), "el ajuste nunca perfora el piso")
}

func TestEngine_FalloParcialNoAbortaElBatch(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedLink("MLB2", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, nil)
	f.seedSignal("MLB2", "competing", 200, nil)
	f.channel.failUpdates["MLB1"] = true
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)
	f.addRule("rule-2", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB2"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err, "un fallo de regla jamás aborta el batch")

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Executed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, dto.RuleStateActionFailed, summary.Details[0].State)
	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[1].State)

	assert.Zero(t, f.rules.execs["rule-1"])
	assert.Equal(t, 1, f.rules.execs["rule-2"])
	assert.Len(t, f.logs.entries, 2)
}

func TestEngine_PayloadCorruptoQuedaSkipped(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.addRule("rule-1", entity.RuleTypePrice, `{`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State)
	assert.Equal(t, "payload de regla inválido", summary.Details[0].Message)
}

func TestEngine_SinCredencialQuedaSkipped(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{err: domain.ErrNotAuthenticated})
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"reduce","percent":10,"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State)
	assert.Equal(t, "sin credencial de canal vigente", summary.Details[0].Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas BUYBOX
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_BuyBoxRule_IgualaAlPrecioParaGanar(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, floatPtr(95))
	f.addRule("rule-1", entity.RuleTypeBuyBox, `{}`, `{"listing_ids":["MLB1"],"min_price":90}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[0].State)
	update := f.channel.updates["MLB1"]
	require.NotNil(t, update.Price)
	assert.Equal(t, "95", update.Price.String())
	assert.Equal(t, "95", f.store.links["MLB1"].ChannelPrice.String(),
		"el vínculo refleja el precio aceptado por el canal")
}

func TestEngine_BuyBoxRule_PisoBloqueaElAjuste(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, floatPtr(95))
	f.addRule("rule-1", entity.RuleTypeBuyBox, `{}`, `{"listing_ids":["MLB1"],"min_price":98}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[0].State,
		"no ajustar por piso es un desenlace válido, no un fallo")
	assert.Empty(t, f.channel.updates, "el precio no se toca")
}

func TestEngine_BuyBoxRule_CaidaMayorAlMaximoNoAjusta(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, floatPtr(90))
	f.addRule("rule-1", entity.RuleTypeBuyBox,
		`{"max_drop_percent":5}`, `{"listing_ids":["MLB1"]}`)

	_, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, f.channel.updates, "una caída de 10 puntos supera el máximo tolerado de 5")
}

func TestEngine_BuyBoxRule_GanandoNoHaceNada(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "winning", 100, floatPtr(95))
	f.addRule("rule-1", entity.RuleTypeBuyBox, `{}`, `{"listing_ids":["MLB1"]}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State)
	assert.Empty(t, f.channel.updates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas STOCK y REACTIVATION
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_StockRule_PushBajoMinimo(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 2, 10) // déficit 8
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.addRule("rule-1", entity.RuleTypeStock, `{"min_deficit":5}`, `{"mode":"push"}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[0].State)
	assert.Equal(t, 2, f.channel.listings["MLB1"].AvailableQuantity,
		"el push publica el disponible real del libro")
}

func TestEngine_StockRule_DeficitInsuficienteQuedaSkipped(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 8, 10) // déficit 2
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.addRule("rule-1", entity.RuleTypeStock, `{"min_deficit":5}`, `{"mode":"push"}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateSkipped, summary.Details[0].State)
	assert.Equal(t, "sin productos bajo mínimo", summary.Details[0].Message)
}

func TestEngine_ReactivationRule_ReactivaPausadasConStock(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 5, 0)
	f.seedProduct("prod-2", 0, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusPaused)
	f.seedLink("MLB2", "prod-2", entity.ListingStatusPaused) // sin stock
	f.seedLink("MLB3", "prod-1", entity.ListingStatusActive) // ya activa
	f.addRule("rule-1", entity.RuleTypeReactivation, `{"require_stock":true}`, `{}`)

	summary, err := f.engine.ExecuteAllActiveRules(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateActionExecuted, summary.Details[0].State)
	update, ok := f.channel.updates["MLB1"]
	require.True(t, ok)
	require.NotNil(t, update.Status)
	assert.Equal(t, entity.ListingStatusActive, *update.Status)
	assert.Equal(t, entity.ListingStatusActive, f.store.links["MLB1"].ListingStatus)

	_, touched := f.channel.updates["MLB2"]
	assert.False(t, touched, "sin disponible no se reactiva")
	_, touched = f.channel.updates["MLB3"]
	assert.False(t, touched, "las activas no se tocan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ejecución individual
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_ExecuteRule_Inexistente(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})

	_, err := f.engine.ExecuteRule(context.Background(), "user-1", "rule-ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_ExecuteRule_CorreInactivas(t *testing.T) {
	f := newEngineFixture(t, &fakeTokens{})
	f.seedProduct("prod-1", 10, 0)
	f.seedLink("MLB1", "prod-1", entity.ListingStatusActive)
	f.seedSignal("MLB1", "competing", 100, nil)
	f.addRule("rule-1", entity.RuleTypePrice, `{}`, `{"adjust":"increase","percent":10,"listing_ids":["MLB1"]}`)
	f.rules.rules[0].Active = false

	detail, err := f.engine.ExecuteRule(context.Background(), "user-1", "rule-1")
	require.NoError(t, err)

	assert.Equal(t, dto.RuleStateActionExecuted, detail.State,
		"la ejecución bajo demanda ignora el flag active")
	update := f.channel.updates["MLB1"]
	require.NotNil(t, update.Price)
	assert.Equal(t, "110", update.Price.String())
}
