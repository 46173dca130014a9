package datastructure

import "math"

// PlanarDistance treats degrees as a flat cartesian plane. good enough at the 0.1 degree grid granularity,
// and it is the ordering that the ranked results are built on.
func PlanarDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	dLat := latOne - latTwo
	dLon := lonOne - lonTwo
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// ValidCoordinate reports whether lat/lon are finite and inside the usual degree ranges.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
