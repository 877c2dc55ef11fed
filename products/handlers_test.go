package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lakecity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingLister struct{}

func (failingLister) ListRaw(context.Context) ([]json.RawMessage, error) {
	return nil, errors.New("disk on fire")
}

func TestGetProducts(t *testing.T) {
	h := NewHandler(NewFileReader(writeCatalog(t, catalogJSON)), zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Contains(t, list[1], "price")
	assert.Nil(t, list[1]["price"])
}

func TestGetProductsPassesEntriesThroughVerbatim(t *testing.T) {
	path := writeCatalog(t, `[
  {"id":"cf","name":"Catfish","category":"catfish","price":10,"unit":"lb","featured":true,"price_note":"per lb"},
  {"id":1,"name":"Whiting","category":"jack_salmon","price":7.5,"unit":"lb"}
]`)
	h := NewHandler(NewFileReader(path), zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
  {"id":"cf","name":"Catfish","category":"catfish","price":10,"unit":"lb","featured":true,"price_note":"per lb"},
  {"id":1,"name":"Whiting","category":"jack_salmon","price":7.5,"unit":"lb"}
]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products?category=catfish", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"cf","name":"Catfish","category":"catfish","price":10,"unit":"lb","featured":true,"price_note":"per lb"}]`, rec.Body.String())
}

func TestGetProductsEmptyCatalogIsEmptyArray(t *testing.T) {
	h := NewHandler(NewFileReader(t.TempDir()+"/missing.json"), zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetProductsReadFailure(t *testing.T) {
	h := NewHandler(failingLister{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestGetProductsFilters(t *testing.T) {
	h := NewHandler(NewFileReader(writeCatalog(t, catalogJSON)), zap.NewNop())

	for _, tc := range []struct {
		query string
		want  []string
	}{
		{"?category=buffalo", []string{"buffalo-ribs"}},
		{"?search=FILLET", []string{"cf-fillet"}},
		{"?search=pricing", []string{"shrimp"}},
		{"?category=catfish&search=ribs", []string{}},
	} {
		rec := httptest.NewRecorder()
		h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/products"+tc.query, nil), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []models.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		ids := []string{}
		for _, p := range list {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, tc.want, ids, tc.query)
	}
}
