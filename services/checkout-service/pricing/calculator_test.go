package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

func TestComputeShipping_Threshold(t *testing.T) {
	tests := []struct {
		subtotal float64
		want     float64
	}{
		{0, 50},
		{100, 50},
		{499.99, 50},
		{500, 0},
		{500.01, 0},
		{12000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeShipping(tt.subtotal), "subtotal=%v", tt.subtotal)
	}
}

func TestComputeTax_RoundsToWholeRupee(t *testing.T) {
	assert.Equal(t, 50.0, ComputeTax(1000))
	assert.Equal(t, 17.0, ComputeTax(333))
	assert.Equal(t, 5.0, ComputeTax(100))
	assert.Equal(t, 0.0, ComputeTax(0))
	assert.Equal(t, 1.0, ComputeTax(10), "0.5 rounds half away from zero")
}

func TestComputeTotal_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		cart []models.CartLine
		want models.OrderTotals
	}{
		{
			name: "free shipping at 600",
			cart: []models.CartLine{{ProductID: "p1", Name: "Kaju Katli", Price: 300, Quantity: 2}},
			want: models.OrderTotals{Subtotal: 600, ShippingCost: 0, Tax: 30, Total: 630},
		},
		{
			name: "flat fee below threshold",
			cart: []models.CartLine{{ProductID: "p2", Name: "Rasgulla", Price: 100, Quantity: 1}},
			want: models.OrderTotals{Subtotal: 100, ShippingCost: 50, Tax: 5, Total: 155},
		},
		{
			name: "mixed lines",
			cart: []models.CartLine{
				{ProductID: "p1", Name: "Soan Papdi", Price: 120, Quantity: 2},
				{ProductID: "p2", Name: "Gulab Jamun", Price: 93, Quantity: 1, Weight: "250g"},
			},
			want: models.OrderTotals{Subtotal: 333, ShippingCost: 50, Tax: 17, Total: 400},
		},
		{
			name: "empty cart",
			cart: nil,
			want: models.OrderTotals{Subtotal: 0, ShippingCost: 50, Tax: 0, Total: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotal(tt.cart))
		})
	}
}

func TestComputeTotal_IdentityHolds(t *testing.T) {
	prices := []float64{1, 49.5, 99.99, 250, 333, 499, 500, 501.25, 1999}
	for _, p := range prices {
		for q := 1; q <= 4; q++ {
			got := ComputeTotal([]models.CartLine{{ProductID: "x", Name: "x", Price: p, Quantity: q}})
			assert.InDelta(t, got.Subtotal+got.ShippingCost+got.Tax, got.Total, 1e-9, "price=%v qty=%d", p, q)
			if got.Subtotal >= FreeShippingThreshold {
				assert.Zero(t, got.ShippingCost)
			} else {
				assert.Equal(t, StandardShippingFee, got.ShippingCost)
			}
		}
	}
}

func TestCalculator_CustomRates(t *testing.T) {
	calc := New(Rates{FreeShippingThreshold: 1000, StandardShippingFee: 80, TaxRate: 0.12})
	got := calc.Totals([]models.CartLine{{ProductID: "x", Name: "x", Price: 600, Quantity: 1}})
	assert.Equal(t, models.OrderTotals{Subtotal: 600, ShippingCost: 80, Tax: 72, Total: 752}, got)
}

func TestCalculator_PolicyOverride(t *testing.T) {
	calc := NewWithPolicy(DefaultRates(), FlatShipping{Threshold: 0, Fee: 999})
	assert.Zero(t, calc.ShippingCost(1))

	calc = NewWithPolicy(DefaultRates(), nil)
	assert.Equal(t, StandardShippingFee, calc.ShippingCost(1), "nil policy keeps flat rule")
}
