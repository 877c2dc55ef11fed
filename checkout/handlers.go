package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"lakecity/cart"
	"lakecity/metrics"
	"lakecity/models"
	"lakecity/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// ConfirmationPath is where the client goes after a successful checkout.
const ConfirmationPath = "/order-confirmation"

type Handler struct {
	Service  *Service
	Sessions cart.Sessions
	Log      *zap.Logger
}

func NewHandler(svc *Service, sessions cart.Sessions, log *zap.Logger) *Handler {
	return &Handler{Service: svc, Sessions: sessions, Log: log}
}

type response struct {
	Order    models.Order `json:"order"`
	Redirect string       `json:"redirect"`
	Receipt  string       `json:"receipt"`
}

// ReceiptPath is the customer's link to the PDF receipt of order.
func ReceiptPath(order models.Order) string {
	return "/api/orders/" + url.PathEscape(order.OrderNumber) + "/receipt?email=" + url.QueryEscape(order.CustomerEmail)
}

// PlaceOrder checks out the session cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Log.Warn("PlaceOrder decode error", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid checkout payload")
		return
	}

	sessionID := utils.GetSessionIDFromRequest(r)
	c, err := h.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.Log.Error("PlaceOrder cart load error", zap.String("session", sessionID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order. Please try again.")
		return
	}

	order, err := h.Service.Checkout(r.Context(), c, form)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.CheckoutRejected.WithLabelValues(string(verr.Reason)).Inc()
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{"error": verr.Message, "reason": verr.Reason})
		return
	case err != nil:
		metrics.CheckoutFailed.Inc()
		h.Log.Error("Order error", zap.String("session", sessionID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order. Please try again.")
		return
	}

	if err := h.Sessions.Save(r.Context(), sessionID, c); err != nil {
		// The order is already stored; a stale cart is the lesser problem.
		h.Log.Warn("PlaceOrder cart save error", zap.String("session", sessionID), zap.Error(err))
	}

	utils.RespondWithJSON(w, http.StatusOK, response{Order: order, Redirect: ConfirmationPath, Receipt: ReceiptPath(order)})
}
