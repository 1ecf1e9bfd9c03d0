package delivery

import (
	"errors"
	"fmt"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every amount is kept at.
// Amounts with finer precision are rejected instead of being rounded by storage.
const MoneyPlaces = 2

// ErrPricingIsNotConstructed is returned by Validate on a zero Pricing.
var ErrPricingIsNotConstructed = errs.NewValueIsRequiredError("pricing must be created via NewPricing or NewQuotedPricing")

// Pricing is the cost breakdown fixed at creation. It never changes afterwards.
//
// A computed breakdown keeps Total == Base + Distance + Weight + SpecialHandling.
// A quoted breakdown carries an authoritative total from an upstream quote.
type Pricing struct {
	baseCost            decimal.Decimal
	distanceCost        decimal.Decimal
	weightCost          decimal.Decimal
	specialHandlingCost decimal.Decimal
	totalCost           decimal.Decimal
	quoted              bool
	guard               guard.ConstructorGuard
}

// NewPricing builds a computed breakdown; the total is the sum of the components.
func NewPricing(base, distance, weight, specialHandling decimal.Decimal) (Pricing, error) {
	if err := validateComponents(base, distance, weight, specialHandling); err != nil {
		return Pricing{}, err
	}

	return Pricing{
		baseCost:            base,
		distanceCost:        distance,
		weightCost:          weight,
		specialHandlingCost: specialHandling,
		totalCost:           base.Add(distance).Add(weight).Add(specialHandling),
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// NewQuotedPricing builds a breakdown whose total is taken verbatim and must be positive.
func NewQuotedPricing(base, distance, weight, specialHandling, total decimal.Decimal) (Pricing, error) {
	var errTotal error
	if !total.IsPositive() {
		errTotal = errs.NewValueIsOutOfRangeError("pricing.totalCost", total, "0 (exclusive)", "+Inf")
	} else {
		errTotal = checkMoneyPlaces("pricing.totalCost", total)
	}
	if err := errors.Join(validateComponents(base, distance, weight, specialHandling), errTotal); err != nil {
		return Pricing{}, err
	}

	return Pricing{
		baseCost:            base,
		distanceCost:        distance,
		weightCost:          weight,
		specialHandlingCost: specialHandling,
		totalCost:           total,
		quoted:              true,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// RestorePricing rebuilds a stored breakdown and re-checks the sum rule for computed ones.
func RestorePricing(base, distance, weight, specialHandling, total decimal.Decimal, quoted bool) (Pricing, error) {
	if quoted {
		return NewQuotedPricing(base, distance, weight, specialHandling, total)
	}

	p, err := NewPricing(base, distance, weight, specialHandling)
	if err != nil {
		return Pricing{}, err
	}
	if !p.totalCost.Equal(total) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("pricing.totalCost",
			fmt.Errorf("stored total %s differs from component sum %s", total, p.totalCost))
	}
	return p, nil
}

// Validate ensures the pricing was created through a constructor.
func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

func (p Pricing) BaseCost() decimal.Decimal            { return p.baseCost }
func (p Pricing) DistanceCost() decimal.Decimal        { return p.distanceCost }
func (p Pricing) WeightCost() decimal.Decimal          { return p.weightCost }
func (p Pricing) SpecialHandlingCost() decimal.Decimal { return p.specialHandlingCost }
func (p Pricing) TotalCost() decimal.Decimal           { return p.totalCost }

// IsQuoted reports whether the total came from an upstream quote.
func (p Pricing) IsQuoted() bool { return p.quoted }

func validateComponents(base, distance, weight, specialHandling decimal.Decimal) error {
	check := func(param string, v decimal.Decimal) error {
		if v.IsNegative() {
			return errs.NewValueIsOutOfRangeError(param, v, 0, "+Inf")
		}
		return checkMoneyPlaces(param, v)
	}

	return errors.Join(
		check("pricing.baseCost", base),
		check("pricing.distanceCost", distance),
		check("pricing.weightCost", weight),
		check("pricing.specialHandlingCost", specialHandling),
	)
}

func checkMoneyPlaces(param string, v decimal.Decimal) error {
	if !v.Round(MoneyPlaces).Equal(v) {
		return errs.NewValueIsInvalidErrorWithCause(param,
			fmt.Errorf("%s has more than %d decimal places", v, MoneyPlaces))
	}
	return nil
}
