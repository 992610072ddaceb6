package ordering

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/brew/internal/event"
)

// OrderStatusSubscriber feeds the admin board cache from order status
// events. Malformed events are logged and dropped so one bad message
// never stalls the subscription.
type OrderStatusSubscriber struct {
	subscriber events.Subscriber
	board      *OrderBoardCache
	logger     apt.Logger
}

func NewOrderStatusSubscriber(sub events.Subscriber, board *OrderBoardCache, logger apt.Logger) *OrderStatusSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &OrderStatusSubscriber{
		subscriber: sub,
		board:      board,
		logger:     logger,
	}
}

func (s *OrderStatusSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting order status subscriber", "topic", event.OrderStatusTopic)
	if s.subscriber == nil {
		return fmt.Errorf("order status subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.OrderStatusTopic, s.handleEvent)
}

func (s *OrderStatusSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderStatusEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid order status event", "error", err)
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Info("invalid order id in event", "order_id", evt.OrderID)
		return nil
	}

	if s.board == nil {
		return nil
	}

	switch evt.EventType {
	case event.EventOrderCreated:
		entry := &Order{
			ID:             orderID,
			Status:         FulfillmentStatus(evt.Status),
			CustomerStatus: CustomerStatus(evt.CustomerStatus),
			PickupTime:     evt.PickupTime,
		}
		if entry.CustomerStatus == "" {
			entry.CustomerStatus = CustomerNotStarted
		}
		s.board.Track(entry)
	case event.EventOrderStatusChanged:
		s.board.ApplyStatus(orderID, FulfillmentStatus(evt.Status), evt.OccurredAt)
	case event.EventOrderCustomerStatusChanged:
		s.board.ApplyCustomerStatus(orderID, CustomerStatus(evt.CustomerStatus), evt.OccurredAt)
	default:
		s.logger.Debug("ignoring order event", "event_type", evt.EventType)
		return nil
	}

	s.logger.Debug("order board updated", "order_id", orderID.String(), "event_type", evt.EventType)
	return nil
}
