package stats

// Summary describes the distribution of a series of samples
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary of values
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Count:  len(values),
		Mean:   Mean(values),
		StdDev: StdDev(values),
		P50:    Percentile(values, 50),
		P90:    Percentile(values, 90),
		Max:    Max(values),
	}
}

// OutlierBounds returns the Tukey fences Q1 - 1.5*IQR and Q3 + 1.5*IQR
func OutlierBounds(values []float64) (lower, upper float64) {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// IsOutlier reports whether v lies outside the fences
func IsOutlier(v, lower, upper float64) bool {
	return v < lower || v > upper
}
