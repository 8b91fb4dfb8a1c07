package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	MetersPerNM       = 1852.0
)

// Fix is a GPS position in degrees
type Fix struct {
	Lat float64
	Lon float64
}

// DistanceMeters calculates the great-circle distance between two fixes
func DistanceMeters(a, b Fix) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return angleToMeters(p1.Distance(p2))
}

// DistanceNM calculates the great-circle distance between two fixes in nautical miles
func DistanceNM(a, b Fix) float64 {
	return DistanceMeters(a, b) / MetersPerNM
}

// TrackDistanceNM sums the legs of an ordered track using an s2 polyline
func TrackDistanceNM(track []Fix) float64 {
	if len(track) < 2 {
		return 0
	}
	latlngs := make([]s2.LatLng, len(track))
	for i, f := range track {
		latlngs[i] = s2.LatLngFromDegrees(f.Lat, f.Lon)
	}
	line := s2.PolylineFromLatLngs(latlngs)
	return angleToMeters(line.Length()) / MetersPerNM
}

func angleToMeters(a s1.Angle) float64 {
	return a.Radians() * EarthRadiusMeters
}
