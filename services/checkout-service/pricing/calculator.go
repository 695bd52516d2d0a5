// Package pricing computes checkout totals: subtotal, shipping, tax and total.
package pricing

import (
	"math"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// Default storefront rates, in rupees.
const (
	FreeShippingThreshold = 500.0
	StandardShippingFee   = 50.0
	TaxRate               = 0.05
)

// Rates are the per-deployment pricing constants.
type Rates struct {
	FreeShippingThreshold float64
	StandardShippingFee   float64
	TaxRate               float64
}

// DefaultRates returns the storefront defaults.
func DefaultRates() Rates {
	return Rates{
		FreeShippingThreshold: FreeShippingThreshold,
		StandardShippingFee:   StandardShippingFee,
		TaxRate:               TaxRate,
	}
}

// ShippingPolicy decides the shipping charge for a subtotal.
type ShippingPolicy interface {
	Charge(subtotal float64) float64
}

// FlatShipping charges Fee below Threshold and nothing at or above it.
type FlatShipping struct {
	Threshold float64
	Fee       float64
}

func (f FlatShipping) Charge(subtotal float64) float64 {
	if subtotal >= f.Threshold {
		return 0
	}
	return f.Fee
}

// Calculator computes totals for a cart. The zero value is not usable; build
// one with New or NewWithPolicy.
type Calculator struct {
	Rates    Rates
	Shipping ShippingPolicy
}

// New returns a calculator using the flat free-shipping rule from r.
func New(r Rates) Calculator {
	return Calculator{
		Rates:    r,
		Shipping: FlatShipping{Threshold: r.FreeShippingThreshold, Fee: r.StandardShippingFee},
	}
}

// NewWithPolicy returns a calculator that delegates shipping to p.
func NewWithPolicy(r Rates, p ShippingPolicy) Calculator {
	c := New(r)
	if p != nil {
		c.Shipping = p
	}
	return c
}

// Subtotal is the sum of price × quantity over the cart.
func (c Calculator) Subtotal(cart []models.CartLine) float64 {
	var sum float64
	for _, line := range cart {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

// ShippingCost applies the shipping policy to subtotal.
func (c Calculator) ShippingCost(subtotal float64) float64 {
	return c.Shipping.Charge(subtotal)
}

// Tax is subtotal × rate rounded to the nearest whole rupee, half away from zero.
func (c Calculator) Tax(subtotal float64) float64 {
	return math.Round(subtotal * c.Rates.TaxRate)
}

// Totals composes subtotal, shipping and tax. The result depends only on cart.
func (c Calculator) Totals(cart []models.CartLine) models.OrderTotals {
	subtotal := c.Subtotal(cart)
	shipping := c.ShippingCost(subtotal)
	tax := c.Tax(subtotal)
	return models.OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        subtotal + shipping + tax,
	}
}

var defaultCalculator = New(DefaultRates())

// ComputeSubtotal uses the default rates.
func ComputeSubtotal(cart []models.CartLine) float64 { return defaultCalculator.Subtotal(cart) }

// ComputeShipping uses the default rates.
func ComputeShipping(subtotal float64) float64 { return defaultCalculator.ShippingCost(subtotal) }

// ComputeTax uses the default rates.
func ComputeTax(subtotal float64) float64 { return defaultCalculator.Tax(subtotal) }

// ComputeTotal uses the default rates.
func ComputeTotal(cart []models.CartLine) models.OrderTotals { return defaultCalculator.Totals(cart) }
