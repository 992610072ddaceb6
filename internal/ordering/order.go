package ordering

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Order is a submitted pickup order. The two status dimensions mutate
// independently after creation; the order itself is never deleted, only
// terminally statused.
type Order struct {
	ID                  uuid.UUID         `json:"id" bson:"_id"`
	CustomerID          uuid.UUID         `json:"customer_id" bson:"customer_id"`
	TotalAmount         float64           `json:"total_amount" bson:"total_amount"`
	SpecialInstructions string            `json:"special_instructions,omitempty" bson:"special_instructions,omitempty"`
	Status              FulfillmentStatus `json:"status" bson:"status"`
	CustomerStatus      CustomerStatus    `json:"customer_status" bson:"customer_status"`
	PickupTime          time.Time         `json:"pickup_time" bson:"pickup_time"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" bson:"updated_at"`

	// Populated on reads that join lines in; never stored on the order
	// document itself.
	Lines []*OrderLine `json:"lines,omitempty" bson:"-"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func (o *Order) ResourceType() string {
	return "order"
}

func NewOrder(customerID uuid.UUID) *Order {
	return &Order{
		ID:             apt.GenerateNewID(),
		CustomerID:     customerID,
		Status:         FulfillmentPending,
		CustomerStatus: CustomerNotStarted,
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

// OrderLine is the persisted image of a cart line. PriceAtTime is the
// unit price captured at checkout and is never recomputed from current
// menu pricing, so historical orders keep their original amounts.
type OrderLine struct {
	ID             uuid.UUID         `json:"id" bson:"_id"`
	OrderID        uuid.UUID         `json:"order_id" bson:"order_id"`
	MenuItemID     uuid.UUID         `json:"menu_item_id" bson:"menu_item_id"`
	Name           string            `json:"name" bson:"name"`
	Quantity       int               `json:"quantity" bson:"quantity"`
	PriceAtTime    float64           `json:"price_at_time" bson:"price_at_time"`
	Size           string            `json:"size,omitempty" bson:"size,omitempty"`
	Temperature    string            `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty" bson:"customizations,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
}

func (l *OrderLine) GetID() uuid.UUID {
	return l.ID
}

func (l *OrderLine) ResourceType() string {
	return "order-line"
}

// NewOrderLine snapshots a cart line for the given order.
func NewOrderLine(orderID uuid.UUID, line CartLine) *OrderLine {
	customizations := make(map[string]string, len(line.Customizations))
	for k, v := range line.Customizations {
		customizations[k] = v
	}
	if len(customizations) == 0 {
		customizations = nil
	}

	return &OrderLine{
		ID:             apt.GenerateNewID(),
		OrderID:        orderID,
		MenuItemID:     line.ItemID,
		Name:           line.Name,
		Quantity:       line.Quantity,
		PriceAtTime:    line.UnitPrice,
		Size:           line.Size,
		Temperature:    line.Temperature,
		Customizations: customizations,
		CreatedAt:      time.Now(),
	}
}
