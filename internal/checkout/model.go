package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/t0mb36/veloApp-sub001/internal/cart"
)

var ErrEmptyCart = errors.New("cart is empty")

// Order is the frozen cart handed to the payment and booking collaborator.
type Order struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	Items           []cart.LineItem `json:"items"`
	TotalItems      int             `json:"total_items"`
	TotalPriceCents cart.Cents      `json:"total_price_cents"`
	TotalPrice      string          `json:"total_price"`
	Tries           int             `json:"tries"`
	Created         time.Time       `json:"created"`
}

// NewOrder copies the lines of snap in cart order.
func NewOrder(sessionID string, snap cart.Snapshot, now time.Time) (Order, error) {
	if len(snap.Items) == 0 {
		return Order{}, ErrEmptyCart
	}
	return Order{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		Items:           append([]cart.LineItem(nil), snap.Items...),
		TotalItems:      snap.TotalItems,
		TotalPriceCents: snap.TotalPriceCents,
		TotalPrice:      snap.TotalPrice,
		Created:         now,
	}, nil
}

// ScheduledItems returns the lines that book a specific slot.
func (o Order) ScheduledItems() []cart.LineItem {
	var out []cart.LineItem
	for _, item := range o.Items {
		if item.IsScheduled() {
			out = append(out, item)
		}
	}
	return out
}
