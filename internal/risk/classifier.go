package risk

import (
	"fmt"
	"math"
)

// Category is the ordinal 1-5 bucketing of a wellness score, 5 being most severe.
type Category int

const (
	Minimal Category = iota + 1
	Low
	Moderate
	High
	Critical
)

// Raw-score thresholds, inclusive at the lower bound of each band.
const (
	CriticalThreshold = 116.0
	HighThreshold     = 102.0
	ModerateThreshold = 70.0
)

// Scale tags the domain a wellness value was reported in.
type Scale string

const (
	// ScaleUnknown means the source did not say; the value is range-sniffed.
	ScaleUnknown  Scale = ""
	ScaleRaw      Scale = "raw"
	ScaleCategory Scale = "category"
)

// Input is a wellness reading tagged with its domain.
type Input struct {
	scale Scale
	value float64
}

// RawScore tags v as a continuous 1-140 wellness score.
func RawScore(v float64) Input {
	return Input{scale: ScaleRaw, value: v}
}

// AsCategory tags c as an already-classified category.
func AsCategory(c int) Input {
	return Input{scale: ScaleCategory, value: float64(c)}
}

// Sniff adapts an untagged value from legacy sources: anything in [1,5] is
// taken to be an already-classified category, everything else a raw score.
func Sniff(v float64) Input {
	if v >= 1 && v <= 5 {
		return Input{scale: ScaleCategory, value: v}
	}
	return RawScore(v)
}

// Tagged builds an Input from a scale tag, falling back to Sniff when the tag is empty.
func Tagged(scale Scale, v float64) Input {
	switch scale {
	case ScaleRaw:
		return RawScore(v)
	case ScaleCategory:
		return Input{scale: ScaleCategory, value: v}
	default:
		return Sniff(v)
	}
}

// Scale reports the domain of the input.
func (in Input) Scale() Scale { return in.scale }

// Value reports the underlying number.
func (in Input) Value() float64 { return in.value }

// Classify maps a tagged wellness reading to a risk category. Already-classified
// inputs are rounded and clamped into 1-5. Raw scores below the moderate band are
// split by the lateral movement flag.
func Classify(in Input, excessiveLateralMovement bool) Category {
	if math.IsNaN(in.value) {
		return Minimal
	}

	if in.scale == ScaleCategory {
		// Clamp before converting; huge floats overflow the int conversion.
		v := math.Round(in.value)
		if v < float64(Minimal) {
			return Minimal
		}
		if v > float64(Critical) {
			return Critical
		}
		return Category(v)
	}

	switch {
	case in.value >= CriticalThreshold:
		return Critical
	case in.value >= HighThreshold:
		return High
	case in.value >= ModerateThreshold:
		return Moderate
	case excessiveLateralMovement:
		return Low
	default:
		return Minimal
	}
}

// ClassifyScore classifies an untagged value using range sniffing.
func ClassifyScore(score float64, excessiveLateralMovement bool) Category {
	return Classify(Sniff(score), excessiveLateralMovement)
}

type categoryInfo struct {
	color string
	label string
}

var categoryTable = map[Category]categoryInfo{
	Minimal:  {color: "#22c55e", label: "Minimal Risk"},
	Low:      {color: "#84cc16", label: "Low Risk"},
	Moderate: {color: "#eab308", label: "Moderate Risk"},
	High:     {color: "#f97316", label: "High Risk"},
	Critical: {color: "#ef4444", label: "Critical Risk"},
}

// Categories returns all categories in ascending severity.
func Categories() []Category {
	return []Category{Minimal, Low, Moderate, High, Critical}
}

// Valid reports whether c is one of the five categories.
func (c Category) Valid() bool {
	return c >= Minimal && c <= Critical
}

// Color returns the display color (hex) for the category.
func (c Category) Color() string {
	if info, ok := categoryTable[c]; ok {
		return info.color
	}
	return "#9ca3af"
}

// Label returns the display label for the category.
func (c Category) Label() string {
	if info, ok := categoryTable[c]; ok {
		return info.label
	}
	return "Unknown"
}

func (c Category) String() string {
	return fmt.Sprintf("%d (%s)", int(c), c.Label())
}
