package menu

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/brew/internal/assistant"
)

const MaxBodyBytes = 1 << 20

// Handler handles HTTP requests for the menu surface. Customers read
// the active menu; item management is the admin side.
type Handler struct {
	itemRepo  MenuItemRepo
	assistant assistant.Client
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

func NewHandler(itemRepo MenuItemRepo, assistantClient assistant.Client, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if assistantClient == nil {
		assistantClient = assistant.NewNoopClient()
	}
	return &Handler{
		itemRepo:  itemRepo,
		assistant: assistantClient,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu/items", func(r chi.Router) {
		r.Post("/", h.CreateMenuItem)
		r.Get("/", h.ListMenuItems)
		r.Get("/{id}", h.GetMenuItem)
		r.Put("/{id}", h.UpdateMenuItem)
		r.Delete("/{id}", h.DeleteMenuItem)
	})
	r.Get("/menu/suggestions", h.SuggestDrink)
}

// SuggestDrink handles GET /menu/suggestions?tastes=sweet,iced. The
// suggestion comes from the assistant collaborator; a missing or silent
// assistant is not an error, it just means no suggestion.
func (h *Handler) SuggestDrink(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SuggestDrink")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var tastes []string
	if raw := r.URL.Query().Get("tastes"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tastes = append(tastes, t)
			}
		}
	}

	suggestion, err := h.assistant.SuggestDrink(ctx, tastes)
	if err != nil {
		log.Error("cannot get drink suggestion", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not get a suggestion")
		return
	}

	if suggestion == nil {
		apt.RespondError(w, http.StatusNotFound, "No suggestion available")
		return
	}

	apt.RespondSuccess(w, suggestion)
}

// CreateMenuItem handles POST /menu/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.BeforeCreate()

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("menu item validation failed", "errors", validationErrors)
		apt.Respond(w, http.StatusBadRequest, map[string]interface{}{"errors": validationErrors}, nil)
		return
	}

	if err := h.itemRepo.Create(ctx, item); err != nil {
		log.Error("cannot create menu item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create menu item")
		return
	}

	links := apt.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item, links...)
}

// ListMenuItems handles GET /menu/items. By default only active items
// are returned; ?all=true includes deactivated ones for admin views and
// ?category= narrows by category.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var items []*MenuItem
	var err error

	switch {
	case r.URL.Query().Get("category") != "":
		items, err = h.itemRepo.ListByCategory(ctx, r.URL.Query().Get("category"))
	case r.URL.Query().Get("all") == "true":
		items, err = h.itemRepo.List(ctx)
	default:
		items, err = h.itemRepo.ListActive(ctx)
	}

	if err != nil {
		log.Error("cannot list menu items", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve menu items")
		return
	}

	apt.RespondCollection(w, items, "menu-item")
}

// GetMenuItem handles GET /menu/items/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.itemRepo.Get(ctx, id)
	if err != nil || item == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	links := apt.RESTfulLinksFor(item)
	apt.RespondSuccess(w, item, links...)
}

// UpdateMenuItem handles PUT /menu/items/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	existing, err := h.itemRepo.Get(ctx, id)
	if err != nil || existing == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.ID = id
	item.CreatedAt = existing.CreatedAt
	item.BeforeUpdate()

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("menu item validation failed", "errors", validationErrors)
		apt.Respond(w, http.StatusBadRequest, map[string]interface{}{"errors": validationErrors}, nil)
		return
	}

	if err := h.itemRepo.Save(ctx, item); err != nil {
		log.Error("cannot update menu item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	links := apt.RESTfulLinksFor(item)
	apt.RespondSuccess(w, item, links...)
}

// DeleteMenuItem handles DELETE /menu/items/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.itemRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete menu item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeMenuItemPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*MenuItem, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}

	var item MenuItem
	if err := json.Unmarshal(body, &item); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return nil, false
	}

	return &item, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
