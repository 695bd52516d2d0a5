package models

import "time"

// CartLine is one product variant in a shopper's cart. Price is in rupees.
type CartLine struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"gte=0"`
	Quantity  int     `json:"quantity" binding:"gte=1"`
	Weight    string  `json:"weight,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Address is the shipping or billing form submitted at checkout.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Landmark  string `json:"landmark,omitempty"`
}

// OrderTotals is always Subtotal + ShippingCost + Tax == Total.
type OrderTotals struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// Cart is the stored cart of one shopper.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Upsert adds line to the cart, merging quantities of the same product variant.
func (c *Cart) Upsert(line CartLine) {
	for i, existing := range c.Items {
		if existing.ProductID == line.ProductID && existing.Weight == line.Weight {
			c.Items[i].Quantity += line.Quantity
			c.Items[i].Price = line.Price
			return
		}
	}
	c.Items = append(c.Items, line)
}

// Remove drops every line of productID, or only the given weight variant when weight is set.
func (c *Cart) Remove(productID, weight string) {
	kept := c.Items[:0]
	for _, line := range c.Items {
		if line.ProductID == productID && (weight == "" || line.Weight == weight) {
			continue
		}
		kept = append(kept, line)
	}
	c.Items = kept
}
