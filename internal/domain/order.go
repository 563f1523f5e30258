package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChosenOption is one selected variant of an option group, in the wire shape
// the bot backend consumes.
type ChosenOption struct {
	Name            string `json:"name"`
	SelectedVariant string `json:"selected_variant"`
}

// RawItem is one order line keyed by product id in the submission payload.
type RawItem struct {
	Amount        int            `json:"amount"`
	ChosenOptions []ChosenOption `json:"chosen_options"`
}

// OrderPayload is the fixed wire shape posted to the order submission
// endpoint. Write-once per checkout attempt.
type OrderPayload struct {
	BotID           int64              `json:"bot_id"`
	RawItems        map[string]RawItem `json:"raw_items"`
	RawOrderOptions map[string]string  `json:"raw_order_options"`
	OrderedAt       string             `json:"ordered_at"`
	FromUser        int64              `json:"from_user"`
}

// OrderMeta carries the submission context. OrderedAt must be captured at
// composition time; a stale timestamp from cart-edit time must never be sent.
type OrderMeta struct {
	BotID     int64
	UserID    int64
	OrderedAt time.Time
}

// ComposeOrder turns the current cart and order fields into a submittable
// payload. It must only be called after ValidateOrderFields succeeds;
// composing with missing required fields is a programmer error and returns
// ErrPreconditionViolated. It never synthesizes defaults.
func ComposeOrder(state CatalogState, fields []OrderField, meta OrderMeta) (OrderPayload, error) {
	if res := ValidateOrderFields(fields); !res.OK {
		return OrderPayload{}, fmt.Errorf("%w: missing fields %s",
			ErrPreconditionViolated, strings.Join(res.MissingFieldIDs, ", "))
	}

	payload := OrderPayload{
		BotID:           meta.BotID,
		RawItems:        map[string]RawItem{},
		RawOrderOptions: map[string]string{},
		OrderedAt:       meta.OrderedAt.UTC().Format(time.RFC3339),
		FromUser:        meta.UserID,
	}
	for _, f := range fields {
		payload.RawOrderOptions[f.ID] = f.Value
	}
	for _, p := range state.Products {
		if p.BuyCount == 0 {
			continue
		}
		item := RawItem{Amount: p.BuyCount, ChosenOptions: []ChosenOption{}}
		for _, g := range p.ExtraOptions {
			switch g.Kind {
			case OptionKindBlock, OptionKindPricedBlock:
				if i := g.SelectedIndex(); i >= 0 && i < len(g.Variants) {
					item.ChosenOptions = append(item.ChosenOptions, ChosenOption{
						Name:            g.Name,
						SelectedVariant: g.Variants[i],
					})
				}
			case OptionKindText:
				// display-only, contributes nothing
			}
		}
		payload.RawItems[strconv.FormatInt(p.ID, 10)] = item
	}
	return payload, nil
}

// OrderTotal sums buyCount times the effective (variant-overridden) price
// over all cart lines.
func OrderTotal(state CatalogState) float64 {
	total := 0.0
	for _, p := range state.Products {
		total += float64(p.BuyCount) * p.EffectivePrice()
	}
	return total
}

// SubmitResult is the upstream response to an order submission. The invoice
// URL is empty when the shop has no payment provider configured.
type SubmitResult struct {
	InvoiceURL string `json:"invoice_url"`
}

type OrderStatus string

const (
	OrderStatusSubmitted     OrderStatus = "submitted"
	OrderStatusInvoiceIssued OrderStatus = "invoice_issued"
)

// Order is the locally persisted record of a submitted order.
type Order struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	BotID      int64             `gorm:"index"`
	FromUser   int64             `gorm:"index"`
	Status     OrderStatus       `gorm:"type:varchar(30);index"`
	Items      []OrderItem
	Options    map[string]string `gorm:"type:jsonb;serializer:json"`
	Total      float64           `gorm:"type:decimal(12,2)"`
	InvoiceURL string            `gorm:"size:255"`
	OrderedAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID      `gorm:"type:uuid;index"`
	ProductID     int64          `gorm:"index"`
	Name          string         `gorm:"size:180"`
	Qty           int            `gorm:"not null"`
	UnitPrice     float64        `gorm:"type:decimal(12,2)"`
	ChosenOptions []ChosenOption `gorm:"type:jsonb;serializer:json"`
}
