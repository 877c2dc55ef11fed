package models

// CartItem is one product line in a session cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity; market-price items count as zero.
func (c CartItem) LineTotal() float64 {
	return c.Product.UnitPrice() * float64(c.Quantity)
}
