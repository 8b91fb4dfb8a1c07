package spatial

import "math"

// NormalizeTWA folds a signed or full-circle true wind angle onto 0-180
// degrees, so port and starboard samples share one polar curve
func NormalizeTWA(twa float64) float64 {
	a := math.Mod(math.Abs(twa), 360)
	if a > 180 {
		a = 360 - a
	}
	return a
}
