package notify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lakecity/models"
	"lakecity/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	Sender Sender
	Log    *zap.Logger
}

func NewHandler(sender Sender, log *zap.Logger) *Handler {
	return &Handler{Sender: sender, Log: log}
}

// SendEmail hands the payload to the sender and answers {ok: true}.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var email models.Email
	// An empty body is an empty payload.
	if err := json.NewDecoder(r.Body).Decode(&email); err != nil && !errors.Is(err, io.EOF) {
		h.Log.Warn("SendEmail decode error", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.Sender.Send(r.Context(), email); err != nil {
		h.Log.Error("SendEmail error", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
