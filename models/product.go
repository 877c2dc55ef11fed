package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category groups products on the menu.
type Category string

const (
	CategoryCatfish     Category = "catfish"
	CategoryJackSalmon  Category = "jack_salmon"
	CategoryBuffalo     Category = "buffalo"
	CategoryMarketPrice Category = "market_price"
	CategoryReadyToEat  Category = "ready_to_eat"
	CategoryOther       Category = "other"
)

// Product is a menu entry as stored in products.json.
type Product struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	Price             *float64 `json:"price"` // nil for market-price items
	Unit              string   `json:"unit,omitempty"`
	Description       string   `json:"description,omitempty"`
	ProteinPerServing *float64 `json:"protein_per_serving,omitempty"`
	Image             *string  `json:"image,omitempty"`
}

// Priced reports whether the product has a fixed price. A missing, zero or
// negative price means market price.
func (p Product) Priced() bool {
	return p.Price != nil && *p.Price > 0
}

// UnitPrice returns the price, or 0 for market-price items.
func (p Product) UnitPrice() float64 {
	if !p.Priced() {
		return 0
	}
	return *p.Price
}

// UnmarshalJSON also accepts a numeric id, which is kept in its decimal form.
func (p *Product) UnmarshalJSON(data []byte) error {
	type fields Product
	aux := struct {
		*fields
		ID json.RawMessage `json:"id"`
	}{fields: (*fields)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id := bytes.TrimSpace(aux.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		p.ID = ""
	case id[0] == '"':
		if err := json.Unmarshal(id, &p.ID); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		p.ID = n.String()
	}
	return nil
}
