package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lakecity/products"
	"lakecity/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	Sessions Sessions
	Catalog  products.Lister
	Log      *zap.Logger
}

func NewHandler(sessions Sessions, catalog products.Lister, log *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Catalog: catalog, Log: log}
}

// GetCart returns the session cart with its derived count and total.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c.Snapshot())
}

// AddToCart increments quantity if the product is already in the cart, or inserts it.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Log.Warn("AddToCart decode error", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	if payload.ProductID == "" || payload.Quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	product, err := products.Find(r.Context(), h.Catalog, payload.ProductID)
	if errors.Is(err, products.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.Log.Error("AddToCart catalog error", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}
	if !product.Priced() {
		utils.RespondWithError(w, http.StatusBadRequest, "Market price item: call for pricing")
		return
	}

	h.mutate(w, r, func(c *Cart) { c.Add(product, payload.Quantity) })
}

// UpdateCartItem sets the quantity of one product; zero or less removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payload struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity is required")
		return
	}
	id := ps.ByName("id")
	h.mutate(w, r, func(c *Cart) { c.UpdateQuantity(id, *payload.Quantity) })
}

// RemoveFromCart deletes one product; unknown ids are ignored.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	h.mutate(w, r, func(c *Cart) { c.Remove(id) })
}

// ClearCart empties the session cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.mutate(w, r, func(c *Cart) { c.Clear() })
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Same-site cookie already scopes the session
		return true
	},
}

const wsWriteWait = 10 * time.Second

// WatchCart streams cart snapshots over a websocket until the client disconnects.
func (h *Handler) WatchCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionIDFromRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("WatchCart upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	// the server's read timeout must not end a long-lived stream
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snaps, err := h.Sessions.Watch(ctx, sessionID)
	if err != nil {
		h.Log.Error("WatchCart subscribe error", zap.String("session", sessionID), zap.Error(err))
		return
	}

	// Reader loop only detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for snap := range snaps {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	sessionID := utils.GetSessionIDFromRequest(r)
	c, err := h.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.Log.Error("cart load error", zap.String("session", sessionID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return nil, false
	}
	return c, true
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*Cart)) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	fn(c)

	sessionID := utils.GetSessionIDFromRequest(r)
	if err := h.Sessions.Save(r.Context(), sessionID, c); err != nil {
		h.Log.Error("cart save error", zap.String("session", sessionID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c.Snapshot())
}
