// Package engine implements the find orchestrator on top of the grid
// store, cell coordinate system, spiral traversal, and worker pool, and
// exposes the three operations the core hands its collaborators: build,
// add_person, find_matching.
package engine

import (
	"runtime"

	"github.com/shiva/pplme/internal/cellcoord"
	"github.com/shiva/pplme/internal/grid"
	"github.com/shiva/pplme/internal/model"
	"github.com/shiva/pplme/internal/spiral"
	"github.com/shiva/pplme/internal/workerpool"
	"github.com/shiva/pplme/pkg/metrics"
)

// Engine is the matching engine: a built grid plus the pool and config
// that drive queries against it. The zero value is not usable; construct
// with Build.
type Engine struct {
	cfg  Config
	grid *grid.Grid
	pool *workerpool.Pool
}

// Build validates cfg and constructs an Engine. A configuration fault
// refuses construction with an error rather than panicking.
func Build(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:  cfg,
		grid: grid.New(cfg.resolution()),
		pool: workerpool.New(cfg.PerFindConcurrency),
	}, nil
}

// Close shuts down the engine's worker pool, joining its goroutines. An
// Engine must not be used after Close.
func (e *Engine) Close() {
	e.pool.Shutdown()
}

// AddPerson bulk-loads a single person into the grid. Not safe to overlap
// with FindMatching calls.
func (e *Engine) AddPerson(p model.Person) {
	p.Home.Validate()
	e.grid.Add(p)
}

// FindMatching returns up to ResultCap people whose home cell is reachable
// by the spiral from origin's cell, and whose date of birth lies in
// [today - (age + maxAgeDifference) years, today - (age - maxAgeDifference)
// years].
func (e *Engine) FindMatching(origin model.GeoPosition, age int) []model.Person {
	origin.Validate()

	today := e.cfg.TodayFn()
	earliest := today.AddDate(-(age + e.cfg.MaxAgeDifference), 0, 0)
	latest := today.AddDate(-(age - e.cfg.MaxAgeDifference), 0, 0)
	if earliest.After(latest) {
		earliest, latest = latest, earliest
	}

	fc := newFindContext(e.grid, e.pool, e.cfg.ResultCap, e.perFindConcurrency(), earliest, latest)

	originCell := cellcoord.ToCell(origin, e.cfg.resolution())
	spiral.Walk(originCell, e.cfg.resolution(), fc.tryDispatch)

	results := fc.drain()
	metrics.CellsScanned.Observe(float64(fc.cellsDispatched()))
	return results
}

// perFindConcurrency resolves a zero Config.PerFindConcurrency (meaning
// "unspecified") to hardware parallelism.
func (e *Engine) perFindConcurrency() int {
	if e.cfg.PerFindConcurrency > 0 {
		return e.cfg.PerFindConcurrency
	}
	return runtime.NumCPU()
}
