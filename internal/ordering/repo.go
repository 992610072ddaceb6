package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderRepo is the narrow store-access surface for orders. The two
// status setters write their single field only, so a customer-status
// update can never overwrite a concurrent fulfillment-status update.
type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, statuses []FulfillmentStatus) ([]*Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []FulfillmentStatus) ([]*Order, error)
	SetFulfillmentStatus(ctx context.Context, id uuid.UUID, status FulfillmentStatus) error
	SetCustomerStatus(ctx context.Context, id uuid.UUID, status CustomerStatus) error
	SetPickupTime(ctx context.Context, id uuid.UUID, pickup time.Time) error

	// Delete exists only as the compensating rollback for a checkout
	// whose line inserts failed; completed orders are never deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderLineRepo interface {
	Create(ctx context.Context, line *OrderLine) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderLine, error)
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}
