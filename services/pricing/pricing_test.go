package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUnitPrice(t *testing.T) {
	assert.True(t, UnitPrice(320, 1).Equal(decimal.NewFromInt(320)))
	assert.True(t, UnitPrice(320, 2.4).Equal(decimal.NewFromInt(768)))
}

func TestInDiscountedRegion(t *testing.T) {
	assert.True(t, InDiscountedRegion("Pondicherry"))
	assert.True(t, InDiscountedRegion("  puducherry "))
	assert.True(t, InDiscountedRegion("AUROVILLE"))
	assert.False(t, InDiscountedRegion("Chennai"))
	assert.False(t, InDiscountedRegion(""))
}

func TestDeliveryCharge(t *testing.T) {
	tests := []struct {
		name  string
		grams int
		city  string
		want  int64
	}{
		{"light standard", 400, "Chennai", 60},
		{"light discounted", 400, "Pondicherry", 40},
		{"boundary 500g", 500, "Chennai", 60},
		{"mid standard", 900, "Bangalore", 80},
		{"mid discounted", 900, "Auroville", 60},
		{"heavy standard", 1800, "Chennai", 100},
		{"heavy discounted", 1800, "Pondicherry", 70},
		{"over 2kg standard", 2600, "Chennai", 140},
		{"over 2kg discounted", 2600, "Pondicherry", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeliveryCharge(tt.grams, tt.city)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"got %s want %d", got, tt.want)
		})
	}
}

// The canonical storefront example: one 200g cheese at ₹320, quantity
// two, delivered inside Pondicherry. Subtotal 640, in-region delivery
// 40, tax 4% of 640 = 25.6 rounded to 26, total 706.
func TestComputePondicherryExample(t *testing.T) {
	lines := []Line{
		{Name: "Aged Gouda", UnitPrice: UnitPrice(320, 1), Grams: 200, Quantity: 2},
	}

	b := Compute(lines, "Pondicherry", decimal.Zero)

	assert.Equal(t, 640.0, b.Subtotal)
	assert.Equal(t, 0.0, b.Discount)
	assert.Equal(t, 40.0, b.DeliveryCharge)
	assert.Equal(t, 26.0, b.TaxAmount)
	assert.Equal(t, 706.0, b.TotalAmount)
	assert.Equal(t, 400, b.TotalGrams)
}

func TestComputeMultiLine(t *testing.T) {
	lines := []Line{
		{Name: "Aged Gouda", UnitPrice: UnitPrice(320, 1), Grams: 200, Quantity: 1},
		{Name: "Smoked Scamorza", UnitPrice: UnitPrice(280, 2.4), Grams: 500, Quantity: 2},
	}

	// subtotal = 320 + 672*2 = 1664, grams = 200 + 1000 = 1200,
	// delivery (standard, <=2000g) = 100, tax = round(66.56) = 67.
	b := Compute(lines, "Chennai", decimal.Zero)

	assert.Equal(t, 1664.0, b.Subtotal)
	assert.Equal(t, 100.0, b.DeliveryCharge)
	assert.Equal(t, 67.0, b.TaxAmount)
	assert.Equal(t, 1831.0, b.TotalAmount)
	assert.Equal(t, 1200, b.TotalGrams)
}

func TestComputeWithDiscount(t *testing.T) {
	lines := []Line{
		{Name: "Aged Gouda", UnitPrice: UnitPrice(320, 1), Grams: 200, Quantity: 2},
	}

	b := Compute(lines, "Pondicherry", decimal.NewFromInt(50))

	assert.Equal(t, 50.0, b.Discount)
	assert.Equal(t, 656.0, b.TotalAmount)
}

func TestComputeEmptyCart(t *testing.T) {
	b := Compute(nil, "Pondicherry", decimal.Zero)

	assert.Equal(t, 0.0, b.Subtotal)
	assert.Equal(t, 0.0, b.DeliveryCharge)
	assert.Equal(t, 0.0, b.TotalAmount)
}
