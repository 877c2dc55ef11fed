package products

import (
	"encoding/json"
	"net/http"

	"lakecity/models"
	"lakecity/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	Catalog RawLister
	Log     *zap.Logger
}

func NewHandler(catalog RawLister, log *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Log: log}
}

// GetProducts returns the catalog entries verbatim, in storage order.
// Without query parameters the list is unfiltered; ?category= and ?search=
// narrow it the way the menu page tabs do.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := h.Catalog.ListRaw(r.Context())
	if err != nil {
		h.Log.Error("GetProducts list error", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := utils.ParseCatalogQuery(r)
	if !q.Empty() {
		items = Filter(items, q)
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// Filter keeps the entries matching every requested filter, unchanged.
// Search matches name or description, case-insensitively. Entries that do
// not decode as a product never match.
func Filter(items []json.RawMessage, q utils.CatalogQuery) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var p models.Product
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		if q.Category != "" && string(p.Category) != q.Category {
			continue
		}
		if q.Search != "" && !utils.ContainsIgnoreCase(p.Name, q.Search) && !utils.ContainsIgnoreCase(p.Description, q.Search) {
			continue
		}
		out = append(out, item)
	}
	return out
}
