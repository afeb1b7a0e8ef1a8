// Package geo filters doctors by great-circle distance from a query point.
package geo

import (
	"sort"

	"github.com/golang/geo/s2"

	"github.com/carelink/server/internal/model"
)

const (
	// earthRadiusMeters is the IUGG mean Earth radius.
	earthRadiusMeters = 6371008.8
	metersPerMile     = 1609.34
)

// ValidPoint reports whether lat/lon are finite and within [-90,90] x [-180,180] degrees.
func ValidPoint(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// DistanceMiles returns the great-circle distance between two points given in degrees.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	meters := a.Distance(b).Radians() * earthRadiusMeters
	return meters / metersPerMile
}

// Nearby returns the doctors strictly closer than maxMiles to (lat, lon), closest first.
// Equal distances keep the order of doctors. Availability is not considered.
func Nearby(doctors []model.Doctor, lat, lon, maxMiles float64) []model.NearbyDoctor {
	result := make([]model.NearbyDoctor, 0)
	if maxMiles <= 0 {
		return result
	}

	for _, d := range doctors {
		dist := DistanceMiles(lat, lon, d.Latitude, d.Longitude)
		if dist < maxMiles {
			result = append(result, model.NearbyDoctor{Doctor: d, DistanceMiles: dist})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceMiles < result[j].DistanceMiles
	})
	return result
}
