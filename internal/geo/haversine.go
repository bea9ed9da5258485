package geo

import (
	"math"

	"github.com/E-Rombi/route-go/internal/models"
)

// EarthRadiusM is the sphere radius used for great-circle distances.
const EarthRadiusM = 6371000

// HaversineMeters returns the great-circle distance between two coordinates
// in meters. Planar distance is far too inaccurate at city scale.
func HaversineMeters(a, b models.Location) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

// DistanceMatrix builds the integer-meter distance matrix over the node
// locations. The matrix is symmetric with a zero diagonal.
func DistanceMatrix(locations []models.Location) [][]int64 {
	n := len(locations)
	dist := make([][]int64, n)
	for i := range dist {
		dist[i] = make([]int64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := int64(HaversineMeters(locations[i], locations[j]))
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

// TravelTimeMatrix derives integer travel minutes from a distance matrix at a
// fixed average speed. Floor division is intentional: under-estimating travel
// time never rejects a feasible plan.
func TravelTimeMatrix(distances [][]int64, speedMPerMin int) [][]int64 {
	if speedMPerMin <= 0 {
		speedMPerMin = 500
	}
	times := make([][]int64, len(distances))
	for i, row := range distances {
		times[i] = make([]int64, len(row))
		for j, d := range row {
			times[i][j] = d / int64(speedMPerMin)
		}
	}
	return times
}
