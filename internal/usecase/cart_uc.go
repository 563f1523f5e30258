package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

// CartUC owns the per-session catalog selection state. Every mutation goes
// through the domain snapshot operations, so handlers always see consistent,
// independent states.
type CartUC struct {
	Catalog  domain.CatalogService
	Sessions domain.SessionStore
}

// StartSession fetches the shop catalog and binds a fresh selection state to
// a new session id. Loading the same catalog twice yields the same state.
func (uc *CartUC) StartSession(ctx context.Context) (string, domain.CatalogState, error) {
	products, err := uc.Catalog.Products(ctx)
	if err != nil {
		return "", domain.CatalogState{}, err
	}
	state, err := domain.LoadCatalog(products)
	if err != nil {
		return "", domain.CatalogState{}, err
	}
	id := uuid.NewString()
	uc.Sessions.Put(id, state)
	return id, state, nil
}

// State returns the current snapshot for a session.
func (uc *CartUC) State(sessionID string) (domain.CatalogState, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return domain.CatalogState{}, domain.ErrNotFound
	}
	return state, nil
}

// SetQuantity applies a ±1 quantity change and stores the new snapshot. A
// stale product id is a recoverable no-op: the UI may race a catalog reload.
func (uc *CartUC) SetQuantity(sessionID string, productID int64, delta int) (domain.CatalogState, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return domain.CatalogState{}, domain.ErrNotFound
	}
	if !state.Has(productID) {
		log.Warn().Int64("product_id", productID).Msg("quantity change for unknown product ignored")
	}
	next := state.SetQuantity(productID, delta)
	uc.Sessions.Put(sessionID, next)
	return next, nil
}

// SelectVariant toggles a variant within an option group and stores the new
// snapshot. Unresolvable references are no-ops, logged only.
func (uc *CartUC) SelectVariant(sessionID string, productID int64, groupName string, variantIndex int, desiredOn bool) (domain.CatalogState, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return domain.CatalogState{}, domain.ErrNotFound
	}
	if !state.Has(productID) {
		log.Warn().Int64("product_id", productID).Str("group", groupName).Msg("variant selection for unknown product ignored")
	}
	next := state.SelectVariant(productID, groupName, variantIndex, desiredOn)
	uc.Sessions.Put(sessionID, next)
	return next, nil
}

// Visible runs the filter/sort pipeline over the session snapshot.
func (uc *CartUC) Visible(sessionID string, spec domain.FilterSpec) ([]domain.Product, error) {
	state, ok := uc.Sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.VisibleProducts(state.Products, spec), nil
}

// OrderOptions fetches the order-intake field schema and initializes every
// value to empty, the way the mini-app expects it.
func (uc *CartUC) OrderOptions(ctx context.Context) ([]domain.OrderField, error) {
	fields, err := uc.Catalog.OrderOptions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i].Value = ""
	}
	return fields, nil
}

func (uc *CartUC) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.Catalog.Categories(ctx)
}
