package delivery

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrParcelIsNotConstructed     = errs.NewValueIsRequiredError("parcel must be created via NewParcel")
	ErrDimensionsIsNotConstructed = errs.NewValueIsRequiredError("dimensions must be created via NewDimensions")
)

// PackageType classifies the parcel.
type PackageType string

const (
	PackageDocument   PackageType = "document"
	PackageSmall      PackageType = "small"
	PackageMedium     PackageType = "medium"
	PackageLarge      PackageType = "large"
	PackageOversized  PackageType = "oversized"
	PackagePerishable PackageType = "perishable"
)

// PackageTypes lists the accepted package types.
func PackageTypes() []PackageType {
	return []PackageType{PackageDocument, PackageSmall, PackageMedium, PackageLarge, PackageOversized, PackagePerishable}
}

func (p PackageType) Validate() error {
	for _, known := range PackageTypes() {
		if p == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("parcel.type", fmt.Errorf("unknown package type %q", string(p)))
}

func (p PackageType) String() string {
	return string(p)
}

// Dimensions in centimetres.
type Dimensions struct {
	lengthCm float64
	widthCm  float64
	heightCm float64
	guard    guard.ConstructorGuard
}

// NewDimensions requires positive measurements in centimetres.
func NewDimensions(lengthCm, widthCm, heightCm float64) (Dimensions, error) {
	if err := errors.Join(
		positive("parcel.dimensions.length", lengthCm),
		positive("parcel.dimensions.width", widthCm),
		positive("parcel.dimensions.height", heightCm),
	); err != nil {
		return Dimensions{}, err
	}

	return Dimensions{
		lengthCm: lengthCm,
		widthCm:  widthCm,
		heightCm: heightCm,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (d Dimensions) Validate() error {
	return d.guard.Validate(ErrDimensionsIsNotConstructed)
}

func (d Dimensions) LengthCm() float64 { return d.lengthCm }
func (d Dimensions) WidthCm() float64  { return d.widthCm }
func (d Dimensions) HeightCm() float64 { return d.heightCm }

// Parcel describes what is shipped.
type Parcel struct {
	packageType PackageType
	weightKg    float64
	dimensions  *Dimensions
	fragile     bool
	description string
	guard       guard.ConstructorGuard
}

// NewParcel requires a known package type and a positive weight.
func NewParcel(packageType PackageType, weightKg float64, dimensions *Dimensions, fragile bool, description string) (Parcel, error) {
	p := Parcel{
		packageType: packageType,
		weightKg:    weightKg,
		fragile:     fragile,
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}

	var dimErr error
	if dimensions != nil {
		if dimErr = dimensions.Validate(); dimErr == nil {
			d := *dimensions
			p.dimensions = &d
		}
	}

	if err := errors.Join(
		packageType.Validate(),
		positive("parcel.weight", weightKg),
		dimErr,
	); err != nil {
		return Parcel{}, err
	}

	return p, nil
}

func (p Parcel) Validate() error {
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p Parcel) Type() PackageType   { return p.packageType }
func (p Parcel) WeightKg() float64   { return p.weightKg }
func (p Parcel) Fragile() bool       { return p.fragile }
func (p Parcel) Description() string { return p.description }

// Dimensions returns a copy, or nil when not declared.
func (p Parcel) Dimensions() *Dimensions {
	if p.dimensions == nil {
		return nil
	}
	d := *p.dimensions
	return &d
}

func positive(param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errs.NewValueIsOutOfRangeError(param, v, "0 (exclusive)", "+Inf")
	}
	return nil
}
