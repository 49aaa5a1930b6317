// Package geo provides great-circle distance calculations over the
// same WGS-84 GeoPosition type the matching engine indexes: the
// distance between a query origin and a matched person's home,
// reported by the CLI client.
package geo

import (
	"math"

	"github.com/shiva/pplme/internal/model"
)

// EarthRadiusKm is the mean radius of Earth in kilometers.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two positions
// in kilometers.
func HaversineKm(a, b model.GeoPosition) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// HaversineM returns the great-circle distance between two positions
// in meters.
func HaversineM(a, b model.GeoPosition) float64 {
	return HaversineKm(a, b) * 1000.0
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
