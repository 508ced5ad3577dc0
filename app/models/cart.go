package models

// CartItem is one cart line. Product is a snapshot copied at add time,
// so later catalog mutations never change an existing line's price.
// Lines are keyed by (Product.ID, SelectedSize).
type CartItem struct {
	Product      Product `json:"product"`
	Quantity     int     `json:"quantity"`
	SelectedSize string  `json:"selected_size,omitempty"`
}

// Subtotal is the line's snapshot price times its quantity.
func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}
