package polar

import "sort"

// Model is the set of wind-speed bands making up one polar.
// Bands are kept sorted ascending by wind speed and wind speeds are unique.
// A Model is not safe for concurrent use; callers serialize access.
type Model struct {
	Bands []*AnchorCurve `json:"bands"`
}

// NewModel builds a model from curves, re-sorting them by wind speed.
func NewModel(curves ...*AnchorCurve) *Model {
	m := &Model{Bands: curves}
	m.sort()
	return m
}

func (m *Model) sort() {
	sort.SliceStable(m.Bands, func(i, j int) bool {
		return m.Bands[i].WindSpeed < m.Bands[j].WindSpeed
	})
}

// Band returns the curve for windSpeed, or nil.
func (m *Model) Band(windSpeed float64) *AnchorCurve {
	for _, b := range m.Bands {
		if b.WindSpeed == windSpeed {
			return b
		}
	}
	return nil
}

// WindSpeeds returns the band identifiers in ascending order.
func (m *Model) WindSpeeds() []float64 {
	out := make([]float64, len(m.Bands))
	for i, b := range m.Bands {
		out[i] = b.WindSpeed
	}
	return out
}

// IsEmpty reports whether the model has no bands.
func (m *Model) IsEmpty() bool {
	return len(m.Bands) == 0
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	out := &Model{Bands: make([]*AnchorCurve, len(m.Bands))}
	for i, b := range m.Bands {
		out.Bands[i] = b.Clone()
	}
	return out
}

// AddBand inserts a default flat curve at windSpeed. Existing wind speeds are
// left untouched; the return value reports whether a band was added.
func (m *Model) AddBand(windSpeed float64) bool {
	if m.Band(windSpeed) != nil {
		return false
	}
	m.Bands = append(m.Bands, NewDefaultCurve(windSpeed))
	m.sort()
	return true
}

// DeleteBand removes the band at windSpeed. It refuses to remove the last band
// and reports whether a band was removed. Callers holding a selection of bands
// must repair it when the selected band disappears.
func (m *Model) DeleteBand(windSpeed float64) bool {
	if len(m.Bands) <= 1 {
		return false
	}
	for i, b := range m.Bands {
		if b.WindSpeed == windSpeed {
			m.Bands = append(m.Bands[:i], m.Bands[i+1:]...)
			return true
		}
	}
	return false
}

// AddAngleAcrossModel inserts angle into every band. The band being edited
// receives boatSpeed verbatim; every other band lacking the angle receives its
// own interpolated speed so the bands stay angle-aligned without flattening.
func (m *Model) AddAngleAcrossModel(editingWindSpeed, angle, boatSpeed float64) {
	for _, b := range m.Bands {
		if b.WindSpeed == editingWindSpeed {
			b.AddAngle(angle, boatSpeed)
			continue
		}
		if !b.HasAngle(angle) {
			b.AddAngle(angle, Evaluate(b, angle))
		}
	}
}

// NearestBand returns the band whose wind speed is closest to tws, or nil for
// an empty model.
func (m *Model) NearestBand(tws float64) *AnchorCurve {
	if m.IsEmpty() {
		return nil
	}
	return m.Band(ClassifyNearestBand(tws, m.WindSpeeds()))
}
