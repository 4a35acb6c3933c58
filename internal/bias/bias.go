// Package bias maps a source's numeric bias score to display attributes.
// Scores follow the [-5, 5] convention with 0 as center. Everything here is
// pure and deterministic.
package bias

// Band is the color band a score falls into.
type Band string

const (
	BandStrongLeft  Band = "strong-left"
	BandMildLeft    Band = "mild-left"
	BandNeutral     Band = "neutral"
	BandMildRight   Band = "mild-right"
	BandStrongRight Band = "strong-right"
)

// Category returns the display label for a bias score. Ranges are
// left-inclusive and evaluated in order; the first match wins.
func Category(b float64) string {
	switch {
	case b < -2:
		return "Left"
	case b < -0.5:
		return "Lean Left"
	case b <= 0.5:
		return "Center"
	case b <= 2:
		return "Lean Right"
	default:
		return "Right"
	}
}

// BandFor returns the color band for a bias score, using the same
// thresholds as Category.
func BandFor(b float64) Band {
	switch {
	case b < -2:
		return BandStrongLeft
	case b < -0.5:
		return BandMildLeft
	case b <= 0.5:
		return BandNeutral
	case b <= 2:
		return BandMildRight
	default:
		return BandStrongRight
	}
}

// GaugePosition normalizes a bias score to a [0, 100] gauge position.
// Out-of-range input is a data-quality condition, not an error; the result
// is clamped.
func GaugePosition(b float64) float64 {
	p := ((b + 5) / 10) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Indicator bundles everything a surface needs to render a source's leaning.
type Indicator struct {
	Category      string  `json:"category"`
	Band          Band    `json:"band"`
	GaugePosition float64 `json:"gauge_position"`
}

// IndicatorFor computes the full indicator for a bias score.
func IndicatorFor(b float64) Indicator {
	return Indicator{
		Category:      Category(b),
		Band:          BandFor(b),
		GaugePosition: GaugePosition(b),
	}
}
