package spiral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/pplme/internal/cellcoord"
	"github.com/shiva/pplme/internal/model"
)

func TestWalk_VisitsCenterFirst(t *testing.T) {
	center := cellcoord.ToCell(model.GeoPosition{Lat: 10, Lon: 20}, 1)
	var first cellcoord.CellCoord
	got := false
	Walk(center, 1, func(c cellcoord.CellCoord) bool {
		if !got {
			first = c
			got = true
		}
		return true // stop immediately after the first visit
	})
	require.True(t, got)
	assert.Equal(t, center, first)
}

func TestWalk_StopsWhenVisitorRequests(t *testing.T) {
	center := cellcoord.ToCell(model.GeoPosition{Lat: 0, Lon: 0}, 1)
	count := 0
	Walk(center, 1, func(cellcoord.CellCoord) bool {
		count++
		return count == 5
	})
	assert.Equal(t, 5, count)
}

func TestWalk_NoDuplicatesAndExactlyFourTerminals(t *testing.T) {
	center := cellcoord.ToCell(model.GeoPosition{Lat: 0, Lon: 0}, 1)
	seen := make(map[cellcoord.CellCoord]int)
	terminals := 0
	r := cellcoord.Resolution(1)
	Walk(center, r, func(c cellcoord.CellCoord) bool {
		seen[c]++
		class := classifyVisited(center, c, r)
		if class == cellcoord.Terminal {
			terminals++
		}
		return false // run to exhaustion
	})
	for c, n := range seen {
		assert.Equal(t, 1, n, "cell %+v visited %d times, want 1", c, n)
	}
	assert.Equal(t, 4, terminals)
}

// classifyVisited recovers the (dLat, dLon) offset that produced a visited
// cell and re-classifies it, for test verification only. Since LonIdx is
// wrapped, dLon is reconstructed modulo the wrap width.
func classifyVisited(center, visited cellcoord.CellCoord, r cellcoord.Resolution) cellcoord.Classification {
	dLat := visited.LatIdx - center.LatIdx
	width := r.LonWidth()
	rawDLon := visited.LonIdx - center.LonIdx
	// Two candidate unwrapped offsets: rawDLon, and rawDLon shifted by
	// +/- width; pick whichever lands within the legal |dLon| <= 180*R band.
	maxLon := 180 * int(r)
	for _, cand := range []int{rawDLon, rawDLon + width, rawDLon - width} {
		if cand >= -maxLon && cand <= maxLon {
			return cellcoord.CheckOffsets(center, dLat, cand, r)
		}
	}
	return cellcoord.Invalid
}

func TestWalk_LongitudeWrap(t *testing.T) {
	origin := cellcoord.ToCell(model.GeoPosition{Lat: 0, Lon: -179.99}, 1)
	target := cellcoord.ToCell(model.GeoPosition{Lat: 0, Lon: 179.99}, 1)

	found := false
	Walk(origin, 1, func(c cellcoord.CellCoord) bool {
		if c == target {
			found = true
			return true
		}
		return false
	})
	assert.True(t, found, "expected spiral from %+v to reach wrapped neighbor %+v", origin, target)
}
