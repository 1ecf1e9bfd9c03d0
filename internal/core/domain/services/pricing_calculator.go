package services

import (
	"math"

	"parceltrack/internal/core/domain/model/delivery"

	"github.com/shopspring/decimal"
)

// Rates are the tariff constants of the pricing rule.
type Rates struct {
	Base             decimal.Decimal
	PerKm            decimal.Decimal
	FreeWeightKg     decimal.Decimal
	PerKg            decimal.Decimal
	FragileSurcharge decimal.Decimal
}

// DefaultRates: base 150, 12 per km, first 5 kg free then 5 per kg, flat 50 for fragile parcels.
func DefaultRates() Rates {
	return Rates{
		Base:             decimal.NewFromInt(150),
		PerKm:            decimal.NewFromInt(12),
		FreeWeightKg:     decimal.NewFromInt(5),
		PerKg:            decimal.NewFromInt(5),
		FragileSurcharge: decimal.NewFromInt(50),
	}
}

// ProvidedPricing is a breakdown quoted upstream. Nil fields were omitted by the caller.
type ProvidedPricing struct {
	BaseCost            *float64
	DistanceCost        *float64
	WeightCost          *float64
	SpecialHandlingCost *float64
	TotalCost           *float64
}

// PricingInput describes the trip being priced.
type PricingInput struct {
	DistanceKm float64
	WeightKg   float64
	Fragile    bool
	Provided   *ProvidedPricing
}

// PricingCalculator computes the cost breakdown of a delivery.
//
// Rule:
//
//	distanceCost        = round(distanceKm * PerKm)
//	weightCost          = max(0, weightKg - FreeWeightKg) * PerKg, rounded half up to cents
//	specialHandlingCost = FragileSurcharge if fragile, else 0
//	totalCost           = Base + distanceCost + weightCost + specialHandlingCost
//
// Override: when Provided.TotalCost is set, finite and positive, the quote is adopted in full.
// Every component comes from the quote, falling back to the computed value only where the quote
// omits it, and the total is taken verbatim. Quoted amounts must be whole cents and
// non-negative; anything else is a validation error rather than a silent rounding.
//
// The calculator is stateless and safe for concurrent use.
type PricingCalculator struct {
	rates Rates
}

// NewPricingCalculator creates a calculator charging rates.
func NewPricingCalculator(rates Rates) PricingCalculator {
	return PricingCalculator{rates: rates}
}

// Calculate returns the breakdown for in. It only fails on invalid quotes
// (negative components) or invalid trip figures.
func (c PricingCalculator) Calculate(in PricingInput) (delivery.Pricing, error) {
	distanceKm := finiteOrZero(in.DistanceKm)
	weightKg := finiteOrZero(in.WeightKg)

	base := c.rates.Base
	distance := decimal.NewFromFloat(distanceKm).Mul(c.rates.PerKm).Round(0)
	weight := decimal.Max(decimal.Zero, decimal.NewFromFloat(weightKg).Sub(c.rates.FreeWeightKg)).
		Mul(c.rates.PerKg).Round(delivery.MoneyPlaces)
	special := decimal.Zero
	if in.Fragile {
		special = c.rates.FragileSurcharge
	}

	if p := in.Provided; p != nil && isAuthoritative(p.TotalCost) {
		return delivery.NewQuotedPricing(
			orComputed(p.BaseCost, base),
			orComputed(p.DistanceCost, distance),
			orComputed(p.WeightCost, weight),
			orComputed(p.SpecialHandlingCost, special),
			decimal.NewFromFloat(*p.TotalCost),
		)
	}

	return delivery.NewPricing(base, distance, weight, special)
}

// TripDistanceKm picks the declared route distance, else the great-circle
// distance between pickup and destination coordinates, else 0.
func TripDistanceKm(route *delivery.RouteInfo, pickup, destination delivery.Address) float64 {
	if route != nil {
		if km := route.DistanceKm(); km != nil {
			return *km
		}
	}

	from, to := pickup.Coordinates(), destination.Coordinates()
	if from == nil || to == nil {
		return 0
	}
	km, err := from.DistanceKm(*to)
	if err != nil {
		return 0
	}
	return km
}

func isAuthoritative(total *float64) bool {
	return total != nil && !math.IsNaN(*total) && !math.IsInf(*total, 0) && *total > 0
}

func orComputed(provided *float64, computed decimal.Decimal) decimal.Decimal {
	if provided == nil || math.IsNaN(*provided) || math.IsInf(*provided, 0) {
		return computed
	}
	return decimal.NewFromFloat(*provided)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
