package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/brew/internal/event"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
	orderRepo OrderRepo
	lineRepo  OrderLineRepo
	carts     *CartStore
	checkout  *Checkout
	slots     *SlotGenerator
	resolver  *TimeResolver
	board     *OrderBoardCache
	publisher events.Publisher
	clock     Clock
}

type HandlerDeps struct {
	Repos     Repos
	Carts     *CartStore
	Slots     *SlotGenerator
	Resolver  *TimeResolver
	Board     *OrderBoardCache
	Publisher events.Publisher
	Clock     Clock
}

type Repos struct {
	OrderRepo OrderRepo
	LineRepo  OrderLineRepo
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	clock := hd.Clock
	if clock == nil {
		clock = SystemClock
	}

	carts := hd.Carts
	if carts == nil {
		carts = NewCartStore()
	}

	return &Handler{
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
		orderRepo: hd.Repos.OrderRepo,
		lineRepo:  hd.Repos.LineRepo,
		carts:     carts,
		checkout:  NewCheckout(hd.Repos.OrderRepo, hd.Repos.LineRepo, logger),
		slots:     hd.Slots,
		resolver:  hd.Resolver,
		board:     hd.Board,
		publisher: hd.Publisher,
		clock:     clock,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/carts/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddCartItem)
		r.Delete("/items", h.RemoveCartItem)
		r.Put("/items/quantity", h.SetCartItemQuantity)
		r.Put("/pickup-time", h.SetCartPickupTime)
	})

	r.Route("/pickup", func(r chi.Router) {
		r.Get("/slots", h.ListSlots)
		r.Post("/custom", h.ResolveCustomTime)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/board", h.Board)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/transitions", h.ListTransitions)
		r.Put("/{id}/status", h.UpdateFulfillmentStatus)
		r.Put("/{id}/customer-status", h.UpdateCustomerStatus)
		r.Put("/{id}/pickup-time", h.UpdatePickupTime)
	})
}

// Cart handlers

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	sessionID := chi.URLParam(r, "sessionID")
	cart := h.carts.Snapshot(sessionID)
	apt.Respond(w, http.StatusOK, cart, nil)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCartItem")
	defer finish()

	log := h.log(r)
	sessionID := chi.URLParam(r, "sessionID")

	var req CartItemRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.ItemID == uuid.Nil {
		apt.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	cart := h.carts.Mutate(sessionID, func(cart *Cart) {
		cart.AddItem(CartLine{
			ItemID:         req.ItemID,
			Name:           req.Name,
			UnitPrice:      req.UnitPrice,
			Size:           req.Size,
			Temperature:    req.Temperature,
			Customizations: req.Customizations,
			Quantity:       req.Quantity,
		})
	})

	log.Debug("cart item added", "session_id", sessionID, "item_id", req.ItemID.String())
	apt.Respond(w, http.StatusOK, cart, nil)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveCartItem")
	defer finish()

	log := h.log(r)
	sessionID := chi.URLParam(r, "sessionID")

	var req CartLineFilterRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.ItemID == uuid.Nil {
		apt.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	cart := h.carts.Mutate(sessionID, func(cart *Cart) {
		cart.RemoveItem(req.ItemID, LineFilter{Size: req.Size, Temperature: req.Temperature})
	})

	apt.Respond(w, http.StatusOK, cart, nil)
}

func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetCartItemQuantity")
	defer finish()

	log := h.log(r)
	sessionID := chi.URLParam(r, "sessionID")

	var req CartQuantityRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.ItemID == uuid.Nil {
		apt.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	cart := h.carts.Mutate(sessionID, func(cart *Cart) {
		cart.SetQuantity(req.ItemID, req.Quantity, LineFilter{Size: req.Size, Temperature: req.Temperature})
	})

	apt.Respond(w, http.StatusOK, cart, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	sessionID := chi.URLParam(r, "sessionID")
	h.carts.Mutate(sessionID, func(cart *Cart) {
		cart.Clear()
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetCartPickupTime(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetCartPickupTime")
	defer finish()

	log := h.log(r)
	sessionID := chi.URLParam(r, "sessionID")

	var req PickupTimeRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	candidate, ok := h.resolvePickupTime(w, req, nil)
	if !ok {
		return
	}

	h.carts.SetPickupTime(sessionID, candidate)
	log.Debug("cart pickup time set", "session_id", sessionID, "pickup_time", candidate)
	apt.Respond(w, http.StatusOK, map[string]interface{}{"pickup_time": candidate}, nil)
}

// Slot handlers

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSlots")
	defer finish()

	log := h.log(r)

	var slots []time.Time
	if floorStr := r.URL.Query().Get("floor"); floorStr != "" {
		floor, err := time.Parse(time.RFC3339, floorStr)
		if err != nil {
			log.Debug("invalid floor parameter", "floor", floorStr)
			apt.RespondError(w, http.StatusBadRequest, "Invalid floor parameter")
			return
		}
		slots = h.slots.GenerateFromFloor(floor)
	} else {
		slots = h.slots.GenerateForToday()
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{"slots": slots}, nil)
}

// ResolveCustomTime parses and validates a free-text pickup time without
// committing it anywhere, so clients can check input as it is typed.
func (h *Handler) ResolveCustomTime(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ResolveCustomTime")
	defer finish()

	log := h.log(r)

	var req CustomTimeRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.TimeText == "" {
		apt.RespondError(w, http.StatusBadRequest, "time_text is required")
		return
	}

	candidate, ok := h.resolvePickupTime(w, PickupTimeRequest{TimeText: req.TimeText}, req.Floor)
	if !ok {
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{"pickup_time": candidate}, nil)
}

// Order handlers

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req PlaceOrderRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}
	if req.CustomerID == uuid.Nil {
		apt.RespondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.SessionID == "" {
		apt.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	cart := h.carts.Snapshot(req.SessionID)
	if cart.IsEmpty() {
		apt.RespondError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	pickup, ok := h.checkoutPickupTime(w, cart, req)
	if !ok {
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, req.CustomerID, cart, pickup, req.SpecialInstructions)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			apt.RespondError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		log.Error("cannot place order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not place order")
		return
	}

	h.carts.Drop(req.SessionID)

	if h.board != nil {
		h.board.Track(order)
	}
	h.publishOrderEvent(ctx, event.EventOrderCreated, order, "")

	links := apt.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		log.Debug("order not found", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	lines, err := h.lineRepo.ListByOrder(ctx, id)
	if err != nil {
		log.Error("cannot load order lines", "error", err, "order_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not load order lines")
		return
	}
	order.Lines = lines

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	statuses, ok := h.parseViewFilter(w, r)
	if !ok {
		return
	}

	var orders []*Order
	var err error

	if customerStr := r.URL.Query().Get("customer_id"); customerStr != "" {
		customerID, parseErr := uuid.Parse(customerStr)
		if parseErr != nil {
			log.Debug("invalid customer_id parameter", "customer_id", customerStr)
			apt.RespondError(w, http.StatusBadRequest, "Invalid customer_id parameter")
			return
		}
		orders, err = h.orderRepo.ListByCustomer(ctx, customerID, statuses)
	} else {
		orders, err = h.orderRepo.List(ctx, statuses)
	}

	if err != nil {
		log.Error("cannot list orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	apt.RespondCollection(w, orders, "order")
}

func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Board")
	defer finish()

	if h.board == nil {
		apt.Respond(w, http.StatusOK, []BoardEntry{}, nil)
		return
	}
	apt.Respond(w, http.StatusOK, h.board.Snapshot(), nil)
}

func (h *Handler) ListTransitions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTransitions")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	allowed := []FulfillmentStatus{}
	for _, next := range []FulfillmentStatus{
		FulfillmentAccepted, FulfillmentPreparing, FulfillmentReady,
		FulfillmentCompleted, FulfillmentCancelled,
	} {
		if CanTransition(order.Status, next) {
			allowed = append(allowed, next)
		}
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"status":      order.Status,
		"transitions": allowed,
	}, nil)
}

func (h *Handler) UpdateFulfillmentStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateFulfillmentStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	previous := order.Status
	next := FulfillmentStatus(req.Status)

	if err := h.orderRepo.SetFulfillmentStatus(ctx, id, next); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			log.Debug("illegal status transition", "order_id", id.String(), "from", string(previous), "to", req.Status)
			apt.RespondError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		log.Error("cannot update order status", "error", err, "order_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update order status")
		return
	}

	order.Status = next
	order.BeforeUpdate()

	if h.board != nil {
		h.board.ApplyStatus(id, next, time.Now().UTC())
	}
	h.publishOrderEvent(ctx, event.EventOrderStatusChanged, order, previous)

	log.Info("order status updated", "order_id", id.String(), "from", string(previous), "to", string(next))
	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) UpdateCustomerStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateCustomerStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	status := CustomerStatus(req.Status)
	if !status.Valid() {
		apt.RespondError(w, http.StatusBadRequest, "Invalid customer status")
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.orderRepo.SetCustomerStatus(ctx, id, status); err != nil {
		log.Error("cannot update customer status", "error", err, "order_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update customer status")
		return
	}

	order.CustomerStatus = status
	order.BeforeUpdate()

	if h.board != nil {
		h.board.ApplyCustomerStatus(id, status, time.Now().UTC())
	}
	h.publishOrderEvent(ctx, event.EventOrderCustomerStatusChanged, order, "")

	log.Info("customer status updated", "order_id", id.String(), "status", string(status))
	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) UpdatePickupTime(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdatePickupTime")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req PickupTimeRequest
	if !h.decodeBody(w, r, log, &req) {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.Status.Terminal() {
		apt.RespondError(w, http.StatusBadRequest, "Order is no longer active")
		return
	}

	floor := order.PickupTime
	candidate, ok := h.resolvePickupTime(w, req, &floor)
	if !ok {
		return
	}

	if err := h.orderRepo.SetPickupTime(ctx, id, candidate); err != nil {
		log.Error("cannot update pickup time", "error", err, "order_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update pickup time")
		return
	}

	order.PickupTime = candidate
	order.BeforeUpdate()

	log.Info("pickup time updated", "order_id", id.String(), "pickup_time", candidate)
	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

// Helper methods

// resolvePickupTime turns a pickup time request into a validated
// instant. Free text goes through the resolver against the first slot of
// the matching flow; an RFC3339 time is validated the same way.
func (h *Handler) resolvePickupTime(w http.ResponseWriter, req PickupTimeRequest, floor *time.Time) (time.Time, bool) {
	now := h.clock()

	var slots []time.Time
	if floor != nil {
		slots = h.slots.GenerateFromFloor(*floor)
	} else {
		slots = h.slots.GenerateForToday()
	}
	if len(slots) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "No pickup slots available today")
		return time.Time{}, false
	}

	var candidate time.Time
	switch {
	case req.TimeText != "":
		parsed, err := h.resolver.Parse(req.TimeText, now)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, err.Error())
			return time.Time{}, false
		}
		candidate = parsed
	case req.Time != nil:
		candidate = *req.Time
	default:
		apt.RespondError(w, http.StatusBadRequest, "time or time_text is required")
		return time.Time{}, false
	}

	if err := h.resolver.Validate(candidate, slots[0], now, floor); err != nil {
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}

	return candidate, true
}

// checkoutPickupTime prefers the pickup time already selected on the
// cart, falling back to one supplied with the checkout request.
func (h *Handler) checkoutPickupTime(w http.ResponseWriter, cart Cart, req PlaceOrderRequest) (time.Time, bool) {
	if cart.PickupTime != nil {
		return *cart.PickupTime, true
	}
	return h.resolvePickupTime(w, PickupTimeRequest{Time: req.PickupTime, TimeText: req.PickupTimeText}, nil)
}

func (h *Handler) parseViewFilter(w http.ResponseWriter, r *http.Request) ([]FulfillmentStatus, bool) {
	switch view := r.URL.Query().Get("view"); view {
	case "":
		return nil, true
	case "active":
		return ActiveFulfillmentStatuses, true
	case "past":
		return PastFulfillmentStatuses, true
	default:
		apt.RespondError(w, http.StatusBadRequest, "Invalid view parameter")
		return nil, false
	}
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}

func (h *Handler) publishOrderEvent(ctx context.Context, eventType string, order *Order, previous FulfillmentStatus) {
	if h.publisher == nil {
		return
	}

	evt := event.OrderStatusEvent{
		EventType:      eventType,
		OccurredAt:     time.Now().UTC(),
		OrderID:        order.ID.String(),
		CustomerID:     order.CustomerID.String(),
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		CustomerStatus: string(order.CustomerStatus),
		PickupTime:     order.PickupTime,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal order event", "error", err, "order_id", order.ID.String())
		return
	}
	if err := h.publisher.Publish(ctx, event.OrderStatusTopic, payload); err != nil {
		h.logger.Error("cannot publish order event", "error", err, "order_id", order.ID.String())
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// Payloads

type CartItemRequest struct {
	ItemID         uuid.UUID         `json:"item_id"`
	Name           string            `json:"name"`
	UnitPrice      float64           `json:"unit_price"`
	Size           string            `json:"size,omitempty"`
	Temperature    string            `json:"temperature,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Quantity       int               `json:"quantity,omitempty"`
}

type CartLineFilterRequest struct {
	ItemID      uuid.UUID `json:"item_id"`
	Size        *string   `json:"size,omitempty"`
	Temperature *string   `json:"temperature,omitempty"`
}

type CartQuantityRequest struct {
	ItemID      uuid.UUID `json:"item_id"`
	Quantity    int       `json:"quantity"`
	Size        *string   `json:"size,omitempty"`
	Temperature *string   `json:"temperature,omitempty"`
}

type PickupTimeRequest struct {
	Time     *time.Time `json:"time,omitempty"`
	TimeText string     `json:"time_text,omitempty"`
}

type CustomTimeRequest struct {
	TimeText string     `json:"time_text"`
	Floor    *time.Time `json:"floor,omitempty"`
}

type PlaceOrderRequest struct {
	SessionID           string     `json:"session_id"`
	CustomerID          uuid.UUID  `json:"customer_id"`
	PickupTime          *time.Time `json:"pickup_time,omitempty"`
	PickupTimeText      string     `json:"pickup_time_text,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
