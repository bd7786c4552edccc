// Package pricing derives cart totals from cart lines.
//
// Every function is pure and recomputes from its inputs; nothing is cached.
// Amounts use decimal arithmetic and are only rounded when presented.
package pricing

import (
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// FreeShippingThreshold is exclusive: a subtotal must exceed it to ship free.
	FreeShippingThreshold = decimal.NewFromInt(50)
	ShippingFee           = decimal.RequireFromString("5.99")
	TaxRate               = decimal.RequireFromString("0.0825")
)

// DiscountedUnitPrice returns originalPrice * (1 - discountPercentage/100).
func DiscountedUnitPrice(p models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(p.OriginalPrice)
	return price.Sub(unitDiscount(p))
}

func unitDiscount(p models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(p.OriginalPrice)
	return price.Mul(decimal.NewFromInt(int64(p.DiscountPercentage))).Div(hundred)
}

// LineTotal returns the discounted unit price times the line quantity.
func LineTotal(line models.CartLine) decimal.Decimal {
	return DiscountedUnitPrice(line.Product).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Subtotal sums the line totals of all lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

// Shipping is free only when subtotal is strictly greater than the threshold.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

// Tax applies the flat tax rate to the subtotal.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// GrandTotal returns subtotal + shipping + tax.
func GrandTotal(lines []models.CartLine) decimal.Decimal {
	subtotal := Subtotal(lines)
	return subtotal.Add(Shipping(subtotal)).Add(Tax(subtotal))
}

// DiscountAmount is the total saved across all lines ("you saved X").
func DiscountAmount(lines []models.CartLine) decimal.Decimal {
	saved := decimal.Zero
	for _, l := range lines {
		saved = saved.Add(unitDiscount(l.Product).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return saved
}

// Summary is the order-summary breakdown of a set of cart lines.
type Summary struct {
	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Summarize computes every aggregate in one pass over the current lines.
func Summarize(lines []models.CartLine) Summary {
	subtotal := Subtotal(lines)
	shipping := Shipping(subtotal)
	tax := Tax(subtotal)
	return Summary{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		Discount:   DiscountAmount(lines),
		GrandTotal: subtotal.Add(shipping).Add(tax),
	}
}

// Display is a Summary rounded to cents for presentation.
type Display struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grand_total"`
}

func (s Summary) Rounded() Display {
	return Display{
		Subtotal:   cents(s.Subtotal),
		Shipping:   cents(s.Shipping),
		Tax:        cents(s.Tax),
		Discount:   cents(s.Discount),
		GrandTotal: cents(s.GrandTotal),
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
