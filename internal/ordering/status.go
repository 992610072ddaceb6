package ordering

// FulfillmentStatus is the admin-controlled order state. Orders move
// pending -> accepted -> preparing -> ready -> completed, with cancelled
// reachable as a decline from pending or a cancel after acceptance.
// Completed and cancelled are terminal.
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentAccepted  FulfillmentStatus = "accepted"
	FulfillmentPreparing FulfillmentStatus = "preparing"
	FulfillmentReady     FulfillmentStatus = "ready"
	FulfillmentCompleted FulfillmentStatus = "completed"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
)

var fulfillmentTransitions = map[FulfillmentStatus][]FulfillmentStatus{
	FulfillmentPending:   {FulfillmentAccepted, FulfillmentCancelled},
	FulfillmentAccepted:  {FulfillmentPreparing, FulfillmentCancelled},
	FulfillmentPreparing: {FulfillmentReady, FulfillmentCancelled},
	FulfillmentReady:     {FulfillmentCompleted, FulfillmentCancelled},
	FulfillmentCompleted: {},
	FulfillmentCancelled: {},
}

// ActiveFulfillmentStatuses are the states shown on the "active orders"
// views; the remaining two make up the "past orders" views.
var ActiveFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentPending,
	FulfillmentAccepted,
	FulfillmentPreparing,
	FulfillmentReady,
}

var PastFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentCompleted,
	FulfillmentCancelled,
}

func (s FulfillmentStatus) Valid() bool {
	_, ok := fulfillmentTransitions[s]
	return ok
}

// Terminal reports whether the status has no outgoing transitions.
func (s FulfillmentStatus) Terminal() bool {
	return s == FulfillmentCompleted || s == FulfillmentCancelled
}

// CanTransition reports whether from -> to is a legal fulfillment
// transition. Exposed so UIs can enable or disable actions without
// attempting the write.
func CanTransition(from, to FulfillmentStatus) bool {
	for _, next := range fulfillmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition validates from -> to and returns the rejection reason
// when the move is illegal. Illegal moves never clamp silently.
func CheckTransition(from, to FulfillmentStatus) error {
	if !to.Valid() {
		return &ValidationError{Reason: "unknown fulfillment status " + string(to)}
	}
	if !CanTransition(from, to) {
		return &ValidationError{Reason: "cannot move order from " + string(from) + " to " + string(to)}
	}
	return nil
}

// CustomerStatus is the customer-controlled location state. It carries
// no ordering and no link to the fulfillment dimension: the customer app
// may set any of the three values at any time.
type CustomerStatus string

const (
	CustomerNotStarted CustomerStatus = "not_started"
	CustomerOnTheWay   CustomerStatus = "on_the_way"
	CustomerArrived    CustomerStatus = "arrived"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerNotStarted, CustomerOnTheWay, CustomerArrived:
		return true
	}
	return false
}
