// Package grid implements the dense 2-D cell store: a (180·R+2) × (361·R)
// array of cells, each an age-ordered list of persons.
package grid

import (
	"sort"
	"time"

	"github.com/shiva/pplme/internal/cellcoord"
	"github.com/shiva/pplme/internal/model"
)

// Cell is an ordered, append-only (by design) list of persons sharing a
// grid cell, sorted non-decreasing by date of birth.
type Cell struct {
	people []model.Person
}

// Len returns the number of persons in the cell.
func (c *Cell) Len() int { return len(c.people) }

// At returns the person at index i.
func (c *Cell) At(i int) model.Person { return c.people[i] }

// insert keeps the cell sorted non-decreasing by date of birth, using an
// upper-bound binary search so duplicate ids are never deduplicated
// (last-writer appends).
func (c *Cell) insert(p model.Person) {
	i := sort.Search(len(c.people), func(i int) bool {
		return c.people[i].DateOfBirth.After(p.DateOfBirth)
	})
	c.people = append(c.people, model.Person{})
	copy(c.people[i+1:], c.people[i:])
	c.people[i] = p
}

// scan appends to out every person whose date of birth lies in
// [earliest, latest], using a lower-bound binary search for the first
// candidate and a linear walk until the upper bound is exceeded.
func (c *Cell) scan(earliest, latest time.Time, out []model.Person) []model.Person {
	start := sort.Search(len(c.people), func(i int) bool {
		return !c.people[i].DateOfBirth.Before(earliest)
	})
	for i := start; i < len(c.people); i++ {
		if c.people[i].DateOfBirth.After(latest) {
			break
		}
		out = append(out, c.people[i])
	}
	return out
}

// Grid is a dense 2-D container of cells indexed by CellCoord. It is
// immutable during queries: AddPerson must never overlap with scans.
type Grid struct {
	resolution cellcoord.Resolution
	height     int
	width      int
	cells      []Cell
}

// New constructs a grid at the given resolution. Resolution validity
// (1..100) is the engine's responsibility; Grid itself only needs a
// positive value to size its storage.
func New(r cellcoord.Resolution) *Grid {
	height := r.LatHeight()
	width := r.LonWidth()
	return &Grid{
		resolution: r,
		height:     height,
		width:      width,
		cells:      make([]Cell, height*width),
	}
}

// Resolution returns the grid's configured resolution.
func (g *Grid) Resolution() cellcoord.Resolution { return g.resolution }

func (g *Grid) index(c cellcoord.CellCoord) int {
	return c.LatIdx*g.width + c.LonIdx
}

// Add locates the cell from person.Home and inserts the person at the
// position that keeps the cell sorted by date of birth.
func (g *Grid) Add(p model.Person) {
	coord := cellcoord.ToCell(p.Home, g.resolution)
	g.cells[g.index(coord)].insert(p)
}

// Cell returns a read-only view of the cell at coord.
func (g *Grid) Cell(coord cellcoord.CellCoord) *Cell {
	return &g.cells[g.index(coord)]
}

// Scan appends every person in the cell at coord whose date of birth lies
// in [earliest, latest] to out, returning the extended slice.
func (g *Grid) Scan(coord cellcoord.CellCoord, earliest, latest time.Time, out []model.Person) []model.Person {
	return g.cells[g.index(coord)].scan(earliest, latest, out)
}
