package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

// OrderUC validates, composes, submits and records orders.
type OrderUC struct {
	Sessions domain.SessionStore
	Gateway  domain.OrderGateway
	Orders   domain.OrderRepo
	BotID    int64
}

// Validate checks required-field completeness for the caller, returning
// every missing field id.
func (uc *OrderUC) Validate(fields []domain.OrderField) domain.ValidationResult {
	return domain.ValidateOrderFields(fields)
}

// Total computes the order total for a session's cart.
func (uc *OrderUC) Total(sessionID string) (float64, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return 0, domain.ErrNotFound
	}
	return domain.OrderTotal(state), nil
}

// Place composes the payload from the session's cart, submits it upstream
// and persists a local record. The caller must have validated the fields;
// composition re-checks and fails with ErrPreconditionViolated otherwise.
// Submission is all-or-nothing: a persistence failure after the upstream
// accepted the order is logged, never surfaced as a submission failure.
func (uc *OrderUC) Place(ctx context.Context, sessionID string, fields []domain.OrderField, userID int64, authData string) (domain.SubmitResult, *domain.Order, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return domain.SubmitResult{}, nil, domain.ErrNotFound
	}

	payload, err := domain.ComposeOrder(state, fields, domain.OrderMeta{
		BotID:     uc.BotID,
		UserID:    userID,
		OrderedAt: time.Now(),
	})
	if err != nil {
		return domain.SubmitResult{}, nil, err
	}

	result, err := uc.Gateway.SubmitOrder(ctx, payload, authData)
	if err != nil {
		return domain.SubmitResult{}, nil, err
	}

	record := buildRecord(state, payload, result)
	if err := uc.Orders.Save(ctx, record); err != nil {
		log.Error().Err(err).Str("order_id", record.ID.String()).Msg("order submitted upstream but local save failed")
	}
	uc.Sessions.Delete(sessionID)
	return result, record, nil
}

// List returns the locally recorded orders for the shop.
func (uc *OrderUC) List(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.List(ctx, uc.BotID)
}

func buildRecord(state domain.CatalogState, payload domain.OrderPayload, result domain.SubmitResult) *domain.Order {
	status := domain.OrderStatusSubmitted
	if result.InvoiceURL != "" {
		status = domain.OrderStatusInvoiceIssued
	}
	orderedAt, err := time.Parse(time.RFC3339, payload.OrderedAt)
	if err != nil {
		orderedAt = time.Now().UTC()
	}
	o := &domain.Order{
		ID:         uuid.New(),
		BotID:      payload.BotID,
		FromUser:   payload.FromUser,
		Status:     status,
		Options:    payload.RawOrderOptions,
		Total:      domain.OrderTotal(state),
		InvoiceURL: result.InvoiceURL,
		OrderedAt:  orderedAt,
	}
	for _, p := range state.Lines() {
		item := domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       p.BuyCount,
			UnitPrice: p.EffectivePrice(),
		}
		for _, g := range p.ExtraOptions {
			if g.Kind != domain.OptionKindBlock && g.Kind != domain.OptionKindPricedBlock {
				continue
			}
			if i := g.SelectedIndex(); i >= 0 && i < len(g.Variants) {
				item.ChosenOptions = append(item.ChosenOptions, domain.ChosenOption{
					Name:            g.Name,
					SelectedVariant: g.Variants[i],
				})
			}
		}
		o.Items = append(o.Items, item)
	}
	return o
}
