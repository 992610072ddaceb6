package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOrderBoardCacheTrack(t *testing.T) {
	board := NewOrderBoardCache()
	order := NewOrder(uuid.New())
	order.PickupTime = monday(10, 30, 0)

	board.Track(order)

	entry, ok := board.Get(order.ID)
	if !ok {
		t.Fatal("Track() did not add the order to the board")
	}
	if entry.Status != FulfillmentPending {
		t.Errorf("Status = %s, want %s", entry.Status, FulfillmentPending)
	}
	if !entry.PickupTime.Equal(order.PickupTime) {
		t.Errorf("PickupTime = %v, want %v", entry.PickupTime, order.PickupTime)
	}
}

func TestOrderBoardCacheTerminalEvicts(t *testing.T) {
	board := NewOrderBoardCache()
	order := NewOrder(uuid.New())
	board.Track(order)

	board.ApplyStatus(order.ID, FulfillmentCompleted, time.Now())

	if _, ok := board.Get(order.ID); ok {
		t.Error("completed order should leave the board")
	}

	board.Track(order)
	board.ApplyStatus(order.ID, FulfillmentCancelled, time.Now())

	if _, ok := board.Get(order.ID); ok {
		t.Error("cancelled order should leave the board")
	}
}

func TestOrderBoardCacheTrackTerminalOrder(t *testing.T) {
	board := NewOrderBoardCache()
	order := NewOrder(uuid.New())
	order.Status = FulfillmentCompleted

	board.Track(order)

	if _, ok := board.Get(order.ID); ok {
		t.Error("a terminal order should never enter the board")
	}
}

func TestOrderBoardCacheApplyCustomerStatus(t *testing.T) {
	board := NewOrderBoardCache()
	order := NewOrder(uuid.New())
	board.Track(order)

	at := time.Now()
	board.ApplyCustomerStatus(order.ID, CustomerOnTheWay, at)
	board.ApplyCustomerStatus(order.ID, CustomerArrived, at.Add(time.Minute))

	entry, _ := board.Get(order.ID)
	if entry.CustomerStatus != CustomerArrived {
		t.Errorf("CustomerStatus = %s, want %s", entry.CustomerStatus, CustomerArrived)
	}
	// Fulfillment dimension is untouched by customer moves.
	if entry.Status != FulfillmentPending {
		t.Errorf("Status = %s, want %s", entry.Status, FulfillmentPending)
	}
}

func TestOrderBoardCacheSnapshotSortsByPickupTime(t *testing.T) {
	board := NewOrderBoardCache()

	later := NewOrder(uuid.New())
	later.PickupTime = monday(11, 0, 0)
	earlier := NewOrder(uuid.New())
	earlier.PickupTime = monday(9, 15, 0)
	middle := NewOrder(uuid.New())
	middle.PickupTime = monday(10, 0, 0)

	board.Track(later)
	board.Track(earlier)
	board.Track(middle)

	snapshot := board.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("len(Snapshot()) = %d, want 3", len(snapshot))
	}
	for i := 1; i < len(snapshot); i++ {
		if snapshot[i].PickupTime.Before(snapshot[i-1].PickupTime) {
			t.Errorf("snapshot not sorted by pickup time: %v before %v",
				snapshot[i].PickupTime, snapshot[i-1].PickupTime)
		}
	}
}
