package polar

import (
	"math"
	"sort"
)

// Boundary angles that can never be removed from a curve.
const (
	MinAngle = 0.0
	MaxAngle = 180.0
)

// renameTolerance absorbs drag and display rounding when locating a point to move.
const renameTolerance = 0.1

// AnchorPoint is one authored control point of a boat-speed curve.
type AnchorPoint struct {
	Angle     float64 `json:"angle"`     // TWA in degrees, 0-180
	BoatSpeed float64 `json:"boatSpeed"` // knots
}

// AnchorCurve is the sparse curve for one wind-speed band.
// Anchor points are kept sorted by angle with unique angles.
type AnchorCurve struct {
	WindSpeed    float64       `json:"windSpeed"`
	AnchorPoints []AnchorPoint `json:"anchorPoints"`
}

// defaultAngles seed a freshly added band.
var defaultAngles = []float64{0, 45, 90, 135, 180}

// NewDefaultCurve returns a flat zero curve at 0, 45, 90, 135 and 180 degrees.
func NewDefaultCurve(windSpeed float64) *AnchorCurve {
	c := &AnchorCurve{WindSpeed: windSpeed}
	for _, a := range defaultAngles {
		c.AnchorPoints = append(c.AnchorPoints, AnchorPoint{Angle: a})
	}
	return c
}

func (c *AnchorCurve) sort() {
	sort.SliceStable(c.AnchorPoints, func(i, j int) bool {
		return c.AnchorPoints[i].Angle < c.AnchorPoints[j].Angle
	})
}

func (c *AnchorCurve) indexOf(angle float64) int {
	for i, p := range c.AnchorPoints {
		if p.Angle == angle {
			return i
		}
	}
	return -1
}

// HasAngle reports whether an anchor exists at exactly angle.
func (c *AnchorCurve) HasAngle(angle float64) bool {
	return c.indexOf(angle) >= 0
}

// Clone returns a deep copy of the curve.
func (c *AnchorCurve) Clone() *AnchorCurve {
	out := &AnchorCurve{WindSpeed: c.WindSpeed}
	out.AnchorPoints = append([]AnchorPoint(nil), c.AnchorPoints...)
	return out
}

// SetBoatSpeed replaces the speed at angle, inserting a new anchor if none exists.
// The speed is not range checked.
func (c *AnchorCurve) SetBoatSpeed(angle, speed float64) {
	if i := c.indexOf(angle); i >= 0 {
		c.AnchorPoints[i].BoatSpeed = speed
		return
	}
	c.AnchorPoints = append(c.AnchorPoints, AnchorPoint{Angle: angle, BoatSpeed: speed})
	c.sort()
}

// AddAngle inserts an anchor. It is a no-op when the angle already exists and
// reports whether a point was added.
func (c *AnchorCurve) AddAngle(angle, speed float64) bool {
	if c.HasAngle(angle) {
		return false
	}
	c.AnchorPoints = append(c.AnchorPoints, AnchorPoint{Angle: angle, BoatSpeed: speed})
	c.sort()
	return true
}

// DeleteAngle removes the anchor at angle. Missing angles are ignored.
// The 0 and 180 degree anchors are protected and yield ErrProtectedAngle.
func (c *AnchorCurve) DeleteAngle(angle float64) error {
	if IsBoundaryAngle(angle) {
		return ErrProtectedAngle
	}
	i := c.indexOf(angle)
	if i < 0 {
		return nil
	}
	c.AnchorPoints = append(c.AnchorPoints[:i], c.AnchorPoints[i+1:]...)
	return nil
}

// RenameAnchor moves the first point within 0.1 degrees of oldAngle to
// (newAngle, newSpeed). It reports whether the curve changed. Moving onto an
// angle held by another anchor is a no-op. A boundary anchor may only change
// speed; moving it off 0 or 180 yields ErrProtectedAngle.
func (c *AnchorCurve) RenameAnchor(oldAngle, newAngle, newSpeed float64) (bool, error) {
	if !ValidAngle(newAngle) {
		return false, ErrInvalidAngle
	}
	for i, p := range c.AnchorPoints {
		if math.Abs(p.Angle-oldAngle) >= renameTolerance {
			continue
		}
		if IsBoundaryAngle(p.Angle) && newAngle != p.Angle {
			return false, ErrProtectedAngle
		}
		if j := c.indexOf(newAngle); j >= 0 && j != i {
			return false, nil
		}
		c.AnchorPoints[i] = AnchorPoint{Angle: newAngle, BoatSpeed: newSpeed}
		c.sort()
		return true, nil
	}
	return false, nil
}

// ValidAngle reports whether angle is a finite TWA within [0, 180].
func ValidAngle(angle float64) bool {
	return !math.IsNaN(angle) && angle >= MinAngle && angle <= MaxAngle
}

// IsBoundaryAngle reports whether angle is 0 or 180 degrees.
func IsBoundaryAngle(angle float64) bool {
	return angle == MinAngle || angle == MaxAngle
}
