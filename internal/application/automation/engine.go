package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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

// Engine evalúa las reglas activas de un usuario contra el estado actual del
// libro y de las señales competitivas, ejecuta las acciones que correspondan
// y deja rastro en AutomationLog. Cada corrida es sin estado: no hay memoria
// entre evaluaciones ni debounce entre corridas.
type Engine struct {
	ruleRepo repository.AutomationRuleRepository
	logRepo  repository.AutomationLogRepository
	linkRepo repository.ListingLinkRepository
	ledger   *stock.LedgerUseCase
	syncUC   *channelsync.SyncUseCase
	signals  *competition.SignalsUseCase
	channel  ports.ChannelClient
	tokens   ports.TokenProvider
	log      *logger.Logger
}

// NewEngine construye el motor de reglas.
func NewEngine(
	ruleRepo repository.AutomationRuleRepository,
	logRepo repository.AutomationLogRepository,
	linkRepo repository.ListingLinkRepository,
	ledger *stock.LedgerUseCase,
	syncUC *channelsync.SyncUseCase,
	signals *competition.SignalsUseCase,
	channel ports.ChannelClient,
	tokens ports.TokenProvider,
	log *logger.Logger,
) *Engine {
	return &Engine{
		ruleRepo: ruleRepo,
		logRepo:  logRepo,
		linkRepo: linkRepo,
		ledger:   ledger,
		syncUC:   syncUC,
		signals:  signals,
		channel:  channel,
		tokens:   tokens,
		log:      log,
	}
}

// listingAction resultado por publicación dentro de una acción.
type listingAction struct {
	ListingID string `json:"listing_id"`
	OldPrice  string `json:"old_price,omitempty"`
	NewPrice  string `json:"new_price,omitempty"`
	Note      string `json:"note,omitempty"`
}

// ExecuteAllActiveRules evalúa secuencialmente todas las reglas activas del
// usuario. El fallo de una regla queda en su detalle y jamás aborta las
// siguientes; los errores de condición degradan a SKIPPED.
func (e *Engine) ExecuteAllActiveRules(ctx context.Context, userID string) (*dto.ExecutionSummaryDTO, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	rules, err := e.ruleRepo.List(userID, true)
	if err != nil {
		return nil, err
	}

	summary := &dto.ExecutionSummaryDTO{
		Total:   len(rules),
		Details: make([]dto.RuleExecutionDetailDTO, 0, len(rules)),
	}
	for _, rule := range rules {
		detail := e.executeOne(ctx, userID, rule)

		switch detail.State {
		case dto.RuleStateActionExecuted:
			summary.Executed++
			summary.Succeeded++
			if err := e.ruleRepo.IncrementExecutions(rule.ID); err != nil {
				e.log.Error().Err(err).Str("rule_id", rule.ID).Msg("incrementar contador de regla")
			}
		case dto.RuleStateActionFailed:
			summary.Executed++
			summary.Failed++
		}
		e.appendLog(userID, rule.ID, detail)
		summary.Details = append(summary.Details, detail)
	}

	e.log.Info().
		Str("user_id", userID).
		Int("total", summary.Total).
		Int("executed", summary.Executed).
		Int("failed", summary.Failed).
		Msg("ejecución de reglas de automatización")
	return summary, nil
}

// ExecuteRule evalúa una sola regla (activa o no) bajo demanda.
func (e *Engine) ExecuteRule(ctx context.Context, userID, ruleID string) (*dto.RuleExecutionDetailDTO, error) {
	rule, err := e.ruleRepo.GetByID(userID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	detail := e.executeOne(ctx, userID, rule)
	if detail.State == dto.RuleStateActionExecuted {
		if err := e.ruleRepo.IncrementExecutions(rule.ID); err != nil {
			e.log.Error().Err(err).Str("rule_id", rule.ID).Msg("incrementar contador de regla")
		}
	}
	e.appendLog(userID, rule.ID, detail)
	return &detail, nil
}

// executeOne corre la máquina PENDING → CONDITION_CHECKED → estado final
// para una regla. Nunca devuelve error: todo desenlace es un estado.
func (e *Engine) executeOne(ctx context.Context, userID string, rule *entity.AutomationRule) dto.RuleExecutionDetailDTO {
	detail := dto.RuleExecutionDetailDTO{RuleID: rule.ID, Name: rule.Name}

	payload, err := DecodePayload(rule.Type, rule.Condition, rule.Action)
	if err != nil {
		// Payload corrupto en la base: dato faltante, no error de batch.
		detail.State = dto.RuleStateSkipped
		detail.Message = "payload de regla inválido"
		return detail
	}

	switch rule.Type {
	case entity.RuleTypePrice:
		return e.runPriceRule(ctx, userID, detail, payload.PriceCond, payload.PriceAct)
	case entity.RuleTypeBuyBox:
		return e.runBuyBoxRule(ctx, userID, detail, payload.BuyBoxCond, payload.BuyBoxAct)
	case entity.RuleTypeStock:
		return e.runStockRule(ctx, userID, detail, payload.StockCond, payload.StockAct)
	case entity.RuleTypeReactivation:
		return e.runReactivationRule(ctx, userID, detail, payload.ReactivationCond, payload.ReactivationAct)
	}
	detail.State = dto.RuleStateSkipped
	detail.Message = "tipo de regla desconocido"
	return detail
}

// runPriceRule aplica el ajuste porcentual a cada publicación cuyo estado
// competitivo satisface la condición. Sin catálogo o sin señal = ese ítem no
// satisface; nunca es error.
func (e *Engine) runPriceRule(ctx context.Context, userID string, detail dto.RuleExecutionDetailDTO, cond *PriceCondition, act *PriceAction) dto.RuleExecutionDetailDTO {
	token, err := e.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		detail.State = dto.RuleStateSkipped
		detail.Message = "sin credencial de canal vigente"
		return detail
	}

	var actions []listingAction
	var failures int
	for _, listingID := range act.ListingIDs {
		snapshot, err := e.signals.FetchPriceToWin(ctx, userID, listingID)
		if err != nil || !snapshot.HasCatalog {
			continue // condición no evaluable para este ítem
		}
		if !priceConditionMet(cond, snapshot.Status) {
			continue
		}

		newPrice := transformPrice(snapshot.CurrentPrice, act)
		if act.MinPrice != nil && newPrice.LessThan(*act.MinPrice) {
			newPrice = *act.MinPrice
		}
		if newPrice.Equal(snapshot.CurrentPrice) {
			continue
		}
		la := listingAction{
			ListingID: listingID,
			OldPrice:  snapshot.CurrentPrice.String(),
			NewPrice:  newPrice.String(),
		}
		if err := e.channel.UpdateListing(ctx, token, listingID, ports.ListingUpdate{Price: &newPrice}); err != nil {
			la.Note = err.Error()
			failures++
		} else {
			e.cacheListingPrice(userID, listingID, newPrice)
		}
		actions = append(actions, la)
	}
	return e.finishListingRule(detail, actions, failures)
}

// runBuyBoxRule iguala el precio al price_to_win de cada publicación que no
// está ganando, respetando el piso MinPrice y la caída máxima tolerada.
func (e *Engine) runBuyBoxRule(ctx context.Context, userID string, detail dto.RuleExecutionDetailDTO, cond *BuyBoxCondition, act *BuyBoxAction) dto.RuleExecutionDetailDTO {
	token, err := e.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		detail.State = dto.RuleStateSkipped
		detail.Message = "sin credencial de canal vigente"
		return detail
	}

	var actions []listingAction
	var failures int
	for _, listingID := range act.ListingIDs {
		snapshot, err := e.signals.FetchPriceToWin(ctx, userID, listingID)
		if err != nil || !snapshot.HasCatalog || snapshot.PriceToWin == nil {
			continue
		}
		if snapshot.Status == dto.CompetitiveWinning {
			continue
		}

		target := *snapshot.PriceToWin
		la := listingAction{ListingID: listingID, OldPrice: snapshot.CurrentPrice.String()}
		if act.MinPrice != nil && target.LessThan(*act.MinPrice) {
			la.Note = "price_to_win debajo del piso; no se ajusta"
			actions = append(actions, la)
			continue
		}
		if cond.MaxDropPercent != nil && snapshot.CurrentPrice.GreaterThan(decimal.Zero) {
			drop := snapshot.CurrentPrice.Sub(target).
				Div(snapshot.CurrentPrice).
				Mul(decimal.NewFromInt(100))
			if drop.GreaterThan(*cond.MaxDropPercent) {
				la.Note = "caída mayor al máximo tolerado; no se ajusta"
				actions = append(actions, la)
				continue
			}
		}
		if target.Equal(snapshot.CurrentPrice) {
			continue
		}
		la.NewPrice = target.String()
		if err := e.channel.UpdateListing(ctx, token, listingID, ports.ListingUpdate{Price: &target}); err != nil {
			la.Note = err.Error()
			failures++
		} else {
			e.cacheListingPrice(userID, listingID, target)
		}
		actions = append(actions, la)
	}
	return e.finishListingRule(detail, actions, failures)
}

// runStockRule dispara cuando hay productos bajo mínimo con déficit
// suficiente y ejecuta push o import según la acción.
func (e *Engine) runStockRule(ctx context.Context, userID string, detail dto.RuleExecutionDetailDTO, cond *StockCondition, act *StockAction) dto.RuleExecutionDetailDTO {
	below, err := e.ledger.ListBelowMinimum(ctx, userID)
	if err != nil {
		detail.State = dto.RuleStateSkipped
		detail.Message = "no se pudo evaluar el stock bajo mínimo"
		return detail
	}
	var triggered []repository.BelowMinimumResult
	for _, b := range below {
		if b.Deficit >= cond.MinDeficit {
			triggered = append(triggered, b)
		}
	}
	if len(triggered) == 0 {
		detail.State = dto.RuleStateSkipped
		detail.Message = "sin productos bajo mínimo"
		return detail
	}

	switch act.Mode {
	case StockModeImport:
		result, err := e.syncUC.ImportAllFromChannel(ctx, userID)
		if err != nil {
			detail.State = dto.RuleStateActionFailed
			detail.Message = err.Error()
			return detail
		}
		detail.State = dto.RuleStateActionExecuted
		if result.Failed > 0 {
			detail.State = dto.RuleStateActionFailed
			detail.Message = fmt.Sprintf("%d de %d importaciones fallaron", result.Failed, result.Total)
		}
		detail.Actions, _ = json.Marshal(result)
		return detail

	default: // StockModePush
		var actions []listingAction
		var failures int
		for _, b := range triggered {
			result, err := e.syncUC.PushProductQuantity(ctx, userID, b.Product.ID)
			la := listingAction{ListingID: b.Product.ID}
			if err != nil {
				la.Note = err.Error()
				failures++
			} else if result.Failed > 0 {
				la.Note = fmt.Sprintf("%d de %d publicaciones fallaron", result.Failed, result.Total)
				failures++
			}
			actions = append(actions, la)
		}
		return e.finishListingRule(detail, actions, failures)
	}
}

// runReactivationRule reactiva publicaciones pausadas. Con ListingIDs vacío
// opera sobre todos los vínculos del usuario.
func (e *Engine) runReactivationRule(ctx context.Context, userID string, detail dto.RuleExecutionDetailDTO, cond *ReactivationCondition, act *ReactivationAction) dto.RuleExecutionDetailDTO {
	token, err := e.tokens.GetValidCredential(ctx, userID)
	if err != nil {
		detail.State = dto.RuleStateSkipped
		detail.Message = "sin credencial de canal vigente"
		return detail
	}

	var links []*entity.ListingLink
	if len(act.ListingIDs) == 0 {
		links, err = e.linkRepo.ListActiveByUser(userID)
		if err != nil {
			detail.State = dto.RuleStateSkipped
			detail.Message = "no se pudieron listar los vínculos"
			return detail
		}
	} else {
		for _, id := range act.ListingIDs {
			link, err := e.linkRepo.GetByListingID(userID, id)
			if err != nil || link == nil {
				continue
			}
			links = append(links, link)
		}
	}

	var actions []listingAction
	var failures int
	active := entity.ListingStatusActive
	for _, link := range links {
		if link.ListingStatus != entity.ListingStatusPaused {
			continue
		}
		if cond.RequireStock {
			record, err := e.ledger.GetStock(ctx, userID, link.ProductID, "")
			if err != nil || record.Available <= 0 {
				continue
			}
		}
		la := listingAction{ListingID: link.ListingID}
		if err := e.channel.UpdateListing(ctx, token, link.ListingID, ports.ListingUpdate{Status: &active}); err != nil {
			la.Note = err.Error()
			failures++
			actions = append(actions, la)
			continue
		}
		link.ListingStatus = entity.ListingStatusActive
		if err := e.linkRepo.Update(link); err != nil {
			la.Note = err.Error()
		}
		actions = append(actions, la)
	}
	return e.finishListingRule(detail, actions, failures)
}

// cacheListingPrice refleja en el vínculo local el precio recién aceptado por
// el canal. Un fallo al cachear no revierte el push: el canal ya cambió.
func (e *Engine) cacheListingPrice(userID, listingID string, price decimal.Decimal) {
	link, err := e.linkRepo.GetByListingID(userID, listingID)
	if err != nil || link == nil {
		return
	}
	now := time.Now().UTC()
	link.ChannelPrice = price
	link.LastSyncAt = &now
	if err := e.linkRepo.Update(link); err != nil {
		e.log.Error().Err(err).Str("listing_id", listingID).Msg("cachear precio del vínculo")
	}
}

// priceConditionMet evalúa el predicado de estado de una regla PRICE.
func priceConditionMet(cond *PriceCondition, status string) bool {
	if len(cond.Statuses) == 0 {
		return status != dto.CompetitiveWinning
	}
	for _, s := range cond.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// transformPrice aplica el ajuste porcentual redondeado a 2 decimales.
func transformPrice(current decimal.Decimal, act *PriceAction) decimal.Decimal {
	factor := act.Percent.Div(decimal.NewFromInt(100))
	delta := current.Mul(factor)
	if act.Adjust == AdjustReduce {
		return current.Sub(delta).Round(2)
	}
	return current.Add(delta).Round(2)
}

// finishListingRule cierra el estado de una regla por-publicación: sin
// acciones = SKIPPED; alguna fallida = ACTION_FAILED; todas bien = EXECUTED.
func (e *Engine) finishListingRule(detail dto.RuleExecutionDetailDTO, actions []listingAction, failures int) dto.RuleExecutionDetailDTO {
	if len(actions) == 0 {
		detail.State = dto.RuleStateSkipped
		detail.Message = "condición no satisfecha"
		return detail
	}
	detail.Actions, _ = json.Marshal(actions)
	if failures > 0 {
		detail.State = dto.RuleStateActionFailed
		detail.Message = fmt.Sprintf("%d acciones fallaron", failures)
		return detail
	}
	detail.State = dto.RuleStateActionExecuted
	return detail
}

// appendLog registra la ejecución en la auditoría. Un fallo al escribir el
// log se reporta pero no altera el resultado de la regla.
func (e *Engine) appendLog(userID, ruleID string, detail dto.RuleExecutionDetailDTO) {
	blob, _ := json.Marshal(detail)
	entry := &entity.AutomationLog{
		ID:        uuid.New().String(),
		RuleID:    ruleID,
		UserID:    userID,
		Success:   detail.State == dto.RuleStateActionExecuted,
		Detail:    blob,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.logRepo.Create(entry); err != nil {
		e.log.Error().Err(err).Str("rule_id", ruleID).Msg("registrar log de automatización")
	}
}
