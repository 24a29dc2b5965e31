// Package layout holds the unit-safe lengths shared by the theme and both
// backends.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitDXA              // twentieths of a point (twips), the word-processor table unit
)

// Conversion constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	MmPerInch   = 25.4
	TwipsPerPt  = 20
	TwipsPerIn  = 1440
	EMUPerInch  = 914400
	EMUPerTwip  = EMUPerInch / TwipsPerIn
	defaultUnit = UnitDXA
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitDXA:
		return "dxa"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// Inches is shorthand for a length in inches.
func Inches(v float64) Length { return Length{Value: v, Unit: UnitIN} }

// Millimeters is shorthand for a length in millimeters.
func Millimeters(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// Twips is shorthand for a length in dxa.
func Twips(v float64) Length { return Length{Value: v, Unit: UnitDXA} }

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are returned as-is.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	case UnitDXA:
		return l.Value / TwipsPerPt * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value
	case UnitDXA:
		return l.Value / TwipsPerPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.ToMM() * MmToPt
	}
}

// ToTwips converts the length to dxa, rounded to the nearest integer.
func (l Length) ToTwips() int64 {
	switch l.Unit {
	case UnitDXA:
		return int64(l.Value + 0.5)
	case UnitIN:
		return int64(l.Value*TwipsPerIn + 0.5)
	default:
		return int64(l.ToPT()*TwipsPerPt + 0.5)
	}
}

// ToEMU converts the length to English Metric Units used by drawing markup.
func (l Length) ToEMU() int64 {
	if l.Unit == UnitIN {
		return int64(l.Value*EMUPerInch + 0.5)
	}
	return l.ToTwips() * EMUPerTwip
}

// String renders the length back into its source notation.
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a length such as "5000", "5000dxa", "4in" or "120mm".
// A bare number is read as dxa.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := defaultUnit
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"dxa", UnitDXA}, {"twips", UnitDXA}, {"twip", UnitDXA}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	if f <= 0 {
		return Length{}, fmt.Errorf("length %q must be positive", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
