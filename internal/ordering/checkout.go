package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Checkout turns a cart into a persisted order. Creation is atomic from
// the caller's point of view: when any line insert fails the order
// header is rolled back, so a partial order is never left behind.
type Checkout struct {
	orders OrderRepo
	lines  OrderLineRepo
	logger apt.Logger
}

func NewCheckout(orders OrderRepo, lines OrderLineRepo, logger apt.Logger) *Checkout {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Checkout{
		orders: orders,
		lines:  lines,
		logger: logger,
	}
}

// PlaceOrder persists the cart as an order with the given pickup time.
// The cart must already hold validated selections; prices on the lines
// are the checkout-time snapshot.
func (c *Checkout) PlaceOrder(ctx context.Context, customerID uuid.UUID, cart Cart, pickup time.Time, instructions string) (*Order, error) {
	if cart.IsEmpty() {
		return nil, &ValidationError{Reason: "cart is empty"}
	}

	order := NewOrder(customerID)
	order.TotalAmount = cart.Total()
	order.SpecialInstructions = instructions
	order.PickupTime = pickup
	order.BeforeCreate()

	if err := c.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot create order: %w", err)
	}

	for _, cartLine := range cart.Lines {
		line := NewOrderLine(order.ID, cartLine)
		if err := c.lines.Create(ctx, line); err != nil {
			c.rollback(ctx, order.ID)
			return nil, fmt.Errorf("cannot create order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}

	c.logger.Info("order placed", "order_id", order.ID.String(), "lines", len(order.Lines), "total", order.TotalAmount)
	return order, nil
}

func (c *Checkout) rollback(ctx context.Context, orderID uuid.UUID) {
	if err := c.lines.DeleteByOrder(ctx, orderID); err != nil {
		c.logger.Error("cannot roll back order lines", "error", err, "order_id", orderID.String())
	}
	if err := c.orders.Delete(ctx, orderID); err != nil {
		c.logger.Error("cannot roll back order header", "error", err, "order_id", orderID.String())
	}
}
