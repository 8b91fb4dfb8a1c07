package polar

import (
	"math"
	"sort"
)

// denseEpsilon decides when an integer grid angle is already covered by an anchor.
const denseEpsilon = 0.001

// DensePoint is one sample of a densified curve.
type DensePoint struct {
	Angle     float64 `json:"angle"`
	BoatSpeed float64 `json:"boatSpeed"`
	IsAnchor  bool    `json:"isAnchor"`
}

// Evaluate returns the boat speed at angle using piecewise linear interpolation
// between anchors. Angles outside the anchored range clamp to the nearest end.
func Evaluate(c *AnchorCurve, angle float64) float64 {
	pts := c.AnchorPoints
	switch len(pts) {
	case 0:
		return 0
	case 1:
		return pts[0].BoatSpeed
	}

	if i := c.indexOf(angle); i >= 0 {
		return pts[i].BoatSpeed
	}

	first, last := pts[0], pts[len(pts)-1]
	if angle < first.Angle {
		return first.BoatSpeed
	}
	if angle > last.Angle {
		return last.BoatSpeed
	}

	var lower, upper *AnchorPoint
	for i := range pts {
		p := &pts[i]
		if p.Angle < angle && (lower == nil || p.Angle > lower.Angle) {
			lower = p
		}
		if p.Angle > angle && (upper == nil || p.Angle < upper.Angle) {
			upper = p
		}
	}
	if lower == nil || upper == nil {
		return first.BoatSpeed
	}

	t := (angle - lower.Angle) / (upper.Angle - lower.Angle)
	return lower.BoatSpeed + t*(upper.BoatSpeed-lower.BoatSpeed)
}

// Densify expands the curve for smooth rendering: every anchor verbatim, then
// every integer angle 0..180 not already covered. The result is sorted by angle
// and mixes fractional anchor angles with the integer grid.
func Densify(c *AnchorCurve) []DensePoint {
	out := make([]DensePoint, 0, len(c.AnchorPoints)+181)
	for _, p := range c.AnchorPoints {
		out = append(out, DensePoint{Angle: p.Angle, BoatSpeed: p.BoatSpeed, IsAnchor: true})
	}

	for a := 0; a <= 180; a++ {
		angle := float64(a)
		covered := false
		for _, d := range out {
			if math.Abs(d.Angle-angle) < denseEpsilon {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, DensePoint{Angle: angle, BoatSpeed: Evaluate(c, angle)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Angle < out[j].Angle })
	return out
}
