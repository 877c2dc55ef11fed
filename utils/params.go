package utils

import (
	"net/http"
	"strings"
)

// CatalogQuery holds the optional menu filters of GET /api/products.
type CatalogQuery struct {
	Category string
	Search   string
}

func ParseCatalogQuery(r *http.Request) CatalogQuery {
	q := r.URL.Query()
	return CatalogQuery{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
}

// Empty reports whether no filter was requested.
func (q CatalogQuery) Empty() bool {
	return q.Category == "" && q.Search == ""
}

func ContainsIgnoreCase(str, substr string) bool {
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}
