// Package spiral implements outward ring-by-ring cell traversal from a
// query origin: the ordering basis for "return the closest matches
// first", with longitude wrap and pole termination folded into
// cellcoord's per-candidate classification rather than special-cased here.
package spiral

import (
	"github.com/shiva/pplme/internal/cellcoord"
	"github.com/shiva/pplme/pkg/metrics"
)

// Visitor is called once per cell the spiral emits, in non-decreasing
// approximate distance from the origin. Returning true stops the spiral.
type Visitor func(cellcoord.CellCoord) (stop bool)

// offset is a signed (Δlat, Δlon) pair relative to the spiral's origin.
type offset struct{ dLat, dLon int }

// ring returns the 4*radius candidate offsets of the diamond-shaped
// (L1-ball) boundary at the given radius: due-north start, walking NE,
// SE, SW, then NW back to (not including) the start.
func ring(radius int) []offset {
	pts := make([]offset, 0, 4*radius)
	// NE quadrant: (radius,0) -> (1, radius-1)
	for i := 0; i < radius; i++ {
		pts = append(pts, offset{radius - i, i})
	}
	// SE quadrant: (0,radius) -> (-(radius-1), 1)
	for i := 0; i < radius; i++ {
		pts = append(pts, offset{-i, radius - i})
	}
	// SW quadrant: (-radius,0) -> (-1, -(radius-1))
	for i := 0; i < radius; i++ {
		pts = append(pts, offset{-(radius - i), -i})
	}
	// NW quadrant: (0,-radius) -> (radius-1, -1), excludes closing (radius,0)
	for i := 0; i < radius; i++ {
		pts = append(pts, offset{i, -(radius - i)})
	}
	return pts
}

// maxRadius bounds the walk so that a defective classifier can never spin
// forever: the terminal counter reaches 4 well before the origin's Δlat
// and Δlon both exceed the grid's extent, so this is a pure backstop,
// never the expected exit path.
func maxRadius(r cellcoord.Resolution) int {
	return 4*(180*int(r)+1) + 16
}

// Walk visits center first, then cells in rings of increasing radius,
// until f returns stop, or four terminal (polar-antipodal) cells have been
// visited, or the safety bound is hit.
func Walk(center cellcoord.CellCoord, r cellcoord.Resolution, f Visitor) {
	if f(normalize(center, 0, 0, r)) {
		return
	}

	terminals := 0
	for radius := 1; radius <= maxRadius(r); radius++ {
		for _, o := range ring(radius) {
			class := cellcoord.CheckOffsets(center, o.dLat, o.dLon, r)
			switch class {
			case cellcoord.Invalid:
				continue
			case cellcoord.Terminal:
				metrics.TerminalCellsHit.Inc()
				if f(normalize(center, o.dLat, o.dLon, r)) {
					return
				}
				terminals++
				if terminals == 4 {
					return
				}
			case cellcoord.Valid:
				if f(normalize(center, o.dLat, o.dLon, r)) {
					return
				}
			}
		}
	}
}

func normalize(center cellcoord.CellCoord, dLat, dLon int, r cellcoord.Resolution) cellcoord.CellCoord {
	return cellcoord.CellCoord{
		LatIdx: center.LatIdx + dLat,
		LonIdx: cellcoord.WrapLon(center.LonIdx+dLon, r),
	}
}
