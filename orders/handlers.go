package orders

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"lakecity/models"
	"lakecity/receipt"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	Store    Store
	Receipts *receipt.Renderer
	Log      *zap.Logger
}

func NewHandler(store Store, log *zap.Logger) *Handler {
	return &Handler{Store: store, Receipts: &receipt.Renderer{}, Log: log}
}

// CreateOrder stores an order payload as sent, filling in the order number,
// status and timestamp when missing.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var order models.Order
	// An empty body is an empty payload.
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil && !errors.Is(err, io.EOF) {
		h.Log.Warn("CreateOrder decode error", zap.Error(err))
		http.Error(w, "Invalid order payload", http.StatusBadRequest)
		return
	}

	stored, err := h.Store.Create(r.Context(), order)
	if err != nil {
		h.Log.Error("CreateOrder store error", zap.Error(err))
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	h.Log.Info("order created", zap.String("order_number", stored.OrderNumber), zap.Float64("total", stored.Total))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stored)
}

// PrintReceipt renders the stored order as a PDF. The caller must pass the
// customer's email as ?email=; a mismatch looks exactly like an unknown order.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number := ps.ByName("number")
	email := r.URL.Query().Get("email")

	order, err := h.Store.Get(r.Context(), number)
	if errors.Is(err, ErrNotFound) || (err == nil && !OwnedBy(order, email)) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("PrintReceipt lookup error", zap.String("order_number", number), zap.Error(err))
		http.Error(w, "Failed to load order", http.StatusInternalServerError)
		return
	}

	pdf, err := h.Receipts.Render(order)
	if err != nil {
		h.Log.Error("PrintReceipt render error", zap.String("order_number", number), zap.Error(err))
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// OwnedBy reports whether email identifies the customer of order. Orders
// without an email belong to nobody.
func OwnedBy(order models.Order, email string) bool {
	want := strings.TrimSpace(order.CustomerEmail)
	got := strings.TrimSpace(email)
	return want != "" && strings.EqualFold(want, got)
}
