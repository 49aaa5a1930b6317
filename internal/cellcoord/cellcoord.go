// Package cellcoord implements the quantized grid coordinate system: turning
// a latitude/longitude into a cell, and classifying ring offsets from a
// cell during spiral traversal (longitude wrap, pole termination).
package cellcoord

import (
	"fmt"
	"math"

	"github.com/shiva/pplme/internal/model"
)

// Resolution is the number of cells per degree along each axis. Valid range
// is 1..100; construction-time validation lives in the engine, not here —
// this package only ever receives an already-validated value.
type Resolution int

// LatHeight returns the number of latitude rows in a grid at this
// resolution: 180*R base rows plus one pole row at each end.
func (r Resolution) LatHeight() int {
	return 180*int(r) + 2
}

// LonWidth returns the number of longitude columns in a grid at this
// resolution: 361*R, not simply 360*R+1; WrapLon wraps modulo this
// same width.
func (r Resolution) LonWidth() int {
	return 361 * int(r)
}

// maxLatIdx is the highest valid latitude index: 0 ≤ lat_idx ≤ 180·R + 1,
// consistent with LatHeight above. This is implemented consistently
// everywhere a latitude bound is needed — see DESIGN.md.
func (r Resolution) maxLatIdx() int {
	return 180*int(r) + 1
}

// CellCoord identifies a single grid cell.
type CellCoord struct {
	LatIdx int
	LonIdx int
}

// ToCell quantizes a validated position into a cell coordinate. Input must
// satisfy -90 ≤ lat ≤ 90 and -180 ≤ lon ≤ 180; GeoPosition.Validate panics
// otherwise.
func ToCell(pos model.GeoPosition, r Resolution) CellCoord {
	pos.Validate()
	latIdx := int(math.Trunc((pos.Lat + 90) * float64(r)))
	lonIdx := int(math.Trunc((pos.Lon + 180) * float64(r)))
	if latIdx > 180*int(r) {
		latIdx = 180 * int(r)
	}
	if lonIdx > 360*int(r) {
		lonIdx = 360 * int(r)
	}
	return CellCoord{LatIdx: latIdx, LonIdx: lonIdx}
}

// Classification is the result of classifying a candidate ring offset
// against an origin cell.
type Classification int

const (
	// Invalid candidates are skipped by the spiral entirely.
	Invalid Classification = iota
	// Terminal candidates are visited once and increment the spiral's
	// terminal counter; the spiral does not extend rings past them.
	Terminal
	// Valid candidates are visited normally.
	Valid
)

func (c Classification) String() string {
	switch c {
	case Invalid:
		return "invalid"
	case Terminal:
		return "terminal"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// CheckOffsets classifies a candidate (dLat, dLon) offset from origin.
func CheckOffsets(origin CellCoord, dLat, dLon int, r Resolution) Classification {
	maxLon := 180 * int(r)
	if dLon > maxLon || dLon < -maxLon {
		return Invalid
	}
	newLat := origin.LatIdx + dLat
	if newLat < 0 || newLat > r.maxLatIdx() {
		return Invalid
	}
	if (dLon == maxLon || dLon == -maxLon) && (newLat == 0 || newLat == r.maxLatIdx()) {
		return Terminal
	}
	return Valid
}

// WrapLon applies antimeridian wrap to a raw (possibly out-of-range or
// negative) longitude index, returning a value in [0, LonWidth).
func WrapLon(lonIdx int, r Resolution) int {
	width := r.LonWidth()
	m := lonIdx % width
	if m < 0 {
		m += width
	}
	return m
}
