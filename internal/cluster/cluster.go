// Package cluster groups order locations geographically. The labels are
// informational metadata attached to the data model; no constraint or cost
// term depends on them yet.
package cluster

import (
	"math"

	"github.com/E-Rombi/route-go/internal/models"
)

// Clusterer labels each point with a group id. Any grouping algorithm
// satisfies this contract; the pipeline treats it as a black box.
type Clusterer interface {
	Cluster(points []models.Location) []int
}

// Grid assigns labels by snapping coordinates to a square grid, a cheap
// stand-in for a proper clustering backend. Labels are dense, assigned in
// first-seen order so repeated runs over the same input give the same labels.
type Grid struct {
	// CellSizeDeg is the grid cell edge in degrees. Zero means ~0.05
	// (roughly 5 km at the equator).
	CellSizeDeg float64
}

func (g Grid) Cluster(points []models.Location) []int {
	if len(points) <= 1 {
		return make([]int, len(points))
	}

	cell := g.CellSizeDeg
	if cell <= 0 {
		cell = 0.05
	}

	type key struct{ row, col int }
	seen := make(map[key]int)
	labels := make([]int, len(points))
	for i, p := range points {
		k := key{
			row: int(math.Floor(p.Lat / cell)),
			col: int(math.Floor(p.Lon / cell)),
		}
		id, ok := seen[k]
		if !ok {
			id = len(seen)
			seen[k] = id
		}
		labels[i] = id
	}
	return labels
}

// PadLabels extends a label slice with zeros so it aligns 1:1 with a node
// index space that appends depot nodes after the clustered order nodes.
func PadLabels(labels []int, total int) []int {
	if len(labels) >= total {
		return labels[:total]
	}
	out := make([]int, total)
	copy(out, labels)
	return out
}
