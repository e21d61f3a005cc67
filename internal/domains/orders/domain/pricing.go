package domain

import "math"

const (
	FreeShippingThreshold = 250.0
	FlatShippingFee       = 50.0
	RemoteRegionSurcharge = 150.0
	TaxRate               = 0.18
	// PriceTolerance is the largest difference treated as equal money.
	PriceTolerance = 0.01
)

// remoteRegions must stay in sync with the storefront checkout.
var remoteRegions = map[string]struct{}{
	"Jammu and Kashmir": {},
	"Arunachal Pradesh": {},
	"Ladakh":            {},
}

// Pricing is the server-side breakdown for a subtotal and destination.
type Pricing struct {
	Subtotal     float64
	ShippingCost float64
	TaxAmount    float64
	Total        float64
}

// CalculatePricing derives shipping, tax, and total for the subtotal and region.
func CalculatePricing(subtotal float64, region string) Pricing {
	shipping := ShippingCost(subtotal, region)
	tax := Tax(subtotal)
	return Pricing{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TaxAmount:    tax,
		Total:        subtotal + shipping + tax,
	}
}

// ShippingCost is free at or above the threshold, plus a surcharge for remote regions.
func ShippingCost(subtotal float64, region string) float64 {
	cost := FlatShippingFee
	if subtotal >= FreeShippingThreshold {
		cost = 0
	}
	if IsRemoteRegion(region) {
		cost += RemoteRegionSurcharge
	}
	return cost
}

// Tax rounds the flat rate to a whole rupee, halves rounding up.
func Tax(subtotal float64) float64 {
	return roundHalfUp(subtotal * TaxRate)
}

// IsRemoteRegion matches the region name exactly.
func IsRemoteRegion(region string) bool {
	_, ok := remoteRegions[region]
	return ok
}

// AmountsMatch compares money within PriceTolerance.
func AmountsMatch(a, b float64) bool {
	return math.Abs(a-b) <= PriceTolerance
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
