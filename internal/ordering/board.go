package ordering

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BoardEntry is one active order on the admin board: the latest value of
// each status dimension plus the pickup commitment.
type BoardEntry struct {
	OrderID        uuid.UUID         `json:"order_id"`
	Status         FulfillmentStatus `json:"status"`
	CustomerStatus CustomerStatus    `json:"customer_status"`
	PickupTime     time.Time         `json:"pickup_time"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OrderBoardCache is the in-memory view behind the admin board. It is
// fed by the status event subscriber; orders leave the board once their
// fulfillment status is terminal.
type OrderBoardCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]BoardEntry
}

func NewOrderBoardCache() *OrderBoardCache {
	return &OrderBoardCache{
		entries: make(map[uuid.UUID]BoardEntry),
	}
}

// Track seeds or refreshes the board entry for an order.
func (c *OrderBoardCache) Track(order *Order) {
	if order == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if order.Status.Terminal() {
		delete(c.entries, order.ID)
		return
	}

	c.entries[order.ID] = BoardEntry{
		OrderID:        order.ID,
		Status:         order.Status,
		CustomerStatus: order.CustomerStatus,
		PickupTime:     order.PickupTime,
		UpdatedAt:      time.Now(),
	}
}

// ApplyStatus records a fulfillment status change. Terminal statuses
// evict the order from the board.
func (c *OrderBoardCache) ApplyStatus(orderID uuid.UUID, status FulfillmentStatus, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if status.Terminal() {
		delete(c.entries, orderID)
		return
	}

	entry := c.entries[orderID]
	entry.OrderID = orderID
	entry.Status = status
	entry.UpdatedAt = at
	c.entries[orderID] = entry
}

// ApplyCustomerStatus records a customer location change. The customer
// dimension carries no ordering, so the latest value always wins.
func (c *OrderBoardCache) ApplyCustomerStatus(orderID uuid.UUID, status CustomerStatus, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[orderID]
	if !ok {
		entry = BoardEntry{OrderID: orderID, Status: FulfillmentPending}
	}
	entry.CustomerStatus = status
	entry.UpdatedAt = at
	c.entries[orderID] = entry
}

// Get returns the current board entry for an order.
func (c *OrderBoardCache) Get(orderID uuid.UUID) (BoardEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[orderID]
	return entry, ok
}

// Snapshot lists the board entries ordered by pickup time.
func (c *OrderBoardCache) Snapshot() []BoardEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]BoardEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PickupTime.Before(entries[j].PickupTime)
	})
	return entries
}
