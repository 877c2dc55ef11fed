package products

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"lakecity/models"
)

// ErrNotFound is returned by Find for ids missing from the catalog.
var ErrNotFound = errors.New("product not found")

// Lister is anything that can produce the product catalog.
type Lister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// RawLister returns catalog entries exactly as stored, including fields
// models.Product does not declare.
type RawLister interface {
	ListRaw(ctx context.Context) ([]json.RawMessage, error)
}

// Catalog serves both the typed view used by the cart and the verbatim view
// served to clients.
type Catalog interface {
	Lister
	RawLister
}

// FileReader reads the catalog from a JSON array on disk on every call.
type FileReader struct {
	Path string
}

func NewFileReader(path string) *FileReader {
	return &FileReader{Path: path}
}

// ListRaw returns the stored entries verbatim and in storage order. A missing
// or empty file is an empty catalog; a malformed one is an error.
func (r *FileReader) ListRaw(_ context.Context) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return []json.RawMessage{}, fmt.Errorf("read products: %w", err)
	}
	return decodeRaw(raw)
}

// List returns the catalog as products, in storage order.
func (r *FileReader) List(ctx context.Context) ([]models.Product, error) {
	items, err := r.ListRaw(ctx)
	if err != nil {
		return []models.Product{}, err
	}
	return decodeProducts(items)
}

func decodeRaw(raw []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []json.RawMessage{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []json.RawMessage{}, fmt.Errorf("parse products: %w", err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

func decodeProducts(items []json.RawMessage) ([]models.Product, error) {
	list := make([]models.Product, 0, len(items))
	for i, item := range items {
		var p models.Product
		if err := json.Unmarshal(item, &p); err != nil {
			return []models.Product{}, fmt.Errorf("parse product %d: %w", i, err)
		}
		list = append(list, p)
	}
	return list, nil
}

// Find looks a product up by id.
func Find(ctx context.Context, l Lister, id string) (models.Product, error) {
	list, err := l.List(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}
