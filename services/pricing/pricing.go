// Package pricing derives cart totals server-side from the catalog.
// Clients only ever send (productId, variant, quantity); every rupee
// amount is computed here so a tampered request body cannot change
// what the customer is charged.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// taxRate is the flat GST applied to the subtotal.
var taxRate = decimal.NewFromFloat(0.04)

// discountedCities are the delivery regions around the shop that get
// the reduced slab. Matching is case-insensitive.
var discountedCities = map[string]bool{
	"pondicherry": true,
	"puducherry":  true,
	"auroville":   true,
	"ozhukarai":   true,
	"villianur":   true,
	"lawspet":     true,
}

// deliverySlab is one weight tier of the delivery charge table.
type deliverySlab struct {
	maxGrams   int
	standard   int64
	discounted int64
}

// slabs must stay sorted by maxGrams; the last entry is the catch-all.
var slabs = []deliverySlab{
	{maxGrams: 500, standard: 60, discounted: 40},
	{maxGrams: 1000, standard: 80, discounted: 60},
	{maxGrams: 2000, standard: 100, discounted: 70},
	{maxGrams: 0, standard: 140, discounted: 90},
}

// Line is one cart row resolved against the catalog.
type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Grams     int
	Quantity  int
}

// Breakdown is the complete invoice math for a cart. Fields are kept
// independent so they can be persisted as-is on the order.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalGrams     int     `json:"totalGrams"`
}

// UnitPrice is the price of a single unit of a weight variant.
func UnitPrice(basePrice, multiplier float64) decimal.Decimal {
	return decimal.NewFromFloat(basePrice).Mul(decimal.NewFromFloat(multiplier))
}

// InDiscountedRegion reports whether a delivery city gets the reduced
// delivery slab.
func InDiscountedRegion(city string) bool {
	return discountedCities[strings.ToLower(strings.TrimSpace(city))]
}

// DeliveryCharge returns the delivery fee for a shipment of totalGrams
// to the given city.
func DeliveryCharge(totalGrams int, city string) decimal.Decimal {
	discounted := InDiscountedRegion(city)
	for _, slab := range slabs {
		if slab.maxGrams != 0 && totalGrams > slab.maxGrams {
			continue
		}
		if discounted {
			return decimal.NewFromInt(slab.discounted)
		}
		return decimal.NewFromInt(slab.standard)
	}
	return decimal.Zero
}

// Compute prices a cart for delivery to city. Tax is 4% of the
// subtotal rounded to the nearest rupee. Total is
// subtotal - discount + delivery + tax.
func Compute(lines []Line, city string, discount decimal.Decimal) Breakdown {
	subtotal := decimal.Zero
	totalGrams := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totalGrams += line.Grams * line.Quantity
	}

	delivery := decimal.Zero
	if len(lines) > 0 {
		delivery = DeliveryCharge(totalGrams, city)
	}

	tax := subtotal.Mul(taxRate).Round(0)
	total := subtotal.Sub(discount).Add(delivery).Add(tax)

	return Breakdown{
		Subtotal:       subtotal.InexactFloat64(),
		Discount:       discount.InexactFloat64(),
		DeliveryCharge: delivery.InexactFloat64(),
		TaxAmount:      tax.InexactFloat64(),
		TotalAmount:    total.InexactFloat64(),
		TotalGrams:     totalGrams,
	}
}
