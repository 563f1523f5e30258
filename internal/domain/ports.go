package domain

import "context"

// CatalogService is the upstream bot API: product catalog, order-intake
// field schema and category list for a shop.
type CatalogService interface {
	Products(ctx context.Context) ([]Product, error)
	OrderOptions(ctx context.Context) ([]OrderField, error)
	Categories(ctx context.Context) ([]Category, error)
}

// OrderGateway submits a composed payload to the bot backend. authData is
// the raw Telegram init data of the shopper, forwarded opaquely.
type OrderGateway interface {
	SubmitOrder(ctx context.Context, payload OrderPayload, authData string) (SubmitResult, error)
}

// ProductEntry pushes products to the upstream catalog (admin sheet import).
type ProductEntry interface {
	AddProduct(ctx context.Context, p Product) (int64, error)
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	List(ctx context.Context, botID int64) ([]Order, error)
}

// SessionStore keeps per-session catalog snapshots.
type SessionStore interface {
	Get(id string) (CatalogState, bool)
	Put(id string, state CatalogState)
	Delete(id string)
}
