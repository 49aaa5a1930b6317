package engine

import (
	"sync"
	"time"

	"github.com/shiva/pplme/internal/cellcoord"
	"github.com/shiva/pplme/internal/grid"
	"github.com/shiva/pplme/internal/model"
	"github.com/shiva/pplme/internal/workerpool"
)

// findContext is the per-query shared state rendezvousing the orchestrator
// thread with its workers. It is exclusively owned by the enclosing
// FindMatching call; the in-flight set and result list are shared with
// worker closures via mu/cond.
type findContext struct {
	mu   sync.Mutex
	cond *sync.Cond

	results    []model.Person
	inFlight   map[cellcoord.CellCoord]struct{}
	done       bool
	dispatched int

	resultCap          int
	perFindConcurrency int

	g         *grid.Grid
	pool      *workerpool.Pool
	earliest  time.Time
	latest    time.Time
}

func newFindContext(g *grid.Grid, pool *workerpool.Pool, resultCap, perFindConcurrency int, earliest, latest time.Time) *findContext {
	fc := &findContext{
		inFlight:           make(map[cellcoord.CellCoord]struct{}),
		resultCap:          resultCap,
		perFindConcurrency: perFindConcurrency,
		g:                  g,
		pool:               pool,
		earliest:           earliest,
		latest:             latest,
	}
	fc.cond = sync.NewCond(&fc.mu)
	return fc
}

// tryDispatch implements the dispatch protocol for one spiral-yielded cell:
// wait for a free worker slot, check the stop conditions, then submit or
// stop. It returns true when the spiral should stop.
func (fc *findContext) tryDispatch(coord cellcoord.CellCoord) (stop bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for !(fc.done || len(fc.results) >= fc.resultCap || len(fc.inFlight) < fc.perFindConcurrency) {
		fc.cond.Wait()
	}

	if len(fc.results) >= fc.resultCap {
		fc.done = true
		for len(fc.inFlight) > 0 {
			fc.cond.Wait()
		}
		return true
	}
	if fc.done {
		return true
	}

	if _, exists := fc.inFlight[coord]; exists {
		panic("engine: cell already in flight; duplicate dispatch is a programmer fault")
	}
	fc.inFlight[coord] = struct{}{}
	fc.dispatched++

	fc.pool.Submit(func() { fc.scanWorker(coord) })
	return false
}

// scanWorker is the closure submitted to the worker pool for one cell.
func (fc *findContext) scanWorker(coord cellcoord.CellCoord) {
	fc.mu.Lock()
	if fc.done {
		fc.removeInFlight(coord)
		fc.cond.Broadcast()
		fc.mu.Unlock()
		return
	}
	fc.mu.Unlock()

	local := fc.g.Scan(coord, fc.earliest, fc.latest, nil)

	fc.mu.Lock()
	if !fc.done {
		fc.results = append(fc.results, local...)
	}
	fc.removeInFlight(coord)
	fc.cond.Broadcast()
	fc.mu.Unlock()
}

// removeInFlight must be called with mu held. A missing key means a worker
// is reporting completion for a cell the orchestrator never dispatched, a
// programmer fault.
func (fc *findContext) removeInFlight(coord cellcoord.CellCoord) {
	if _, ok := fc.inFlight[coord]; !ok {
		panic("engine: in-flight count would go negative; cell was not dispatched")
	}
	delete(fc.inFlight, coord)
}

// drain waits under the mutex until no workers remain in flight, then
// returns the accumulated results truncated to the result cap.
func (fc *findContext) drain() []model.Person {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for len(fc.inFlight) > 0 {
		fc.cond.Wait()
	}
	if len(fc.results) > fc.resultCap {
		fc.results = fc.results[:fc.resultCap]
	}
	return fc.results
}

// cellsDispatched reports how many distinct cells were submitted to the
// worker pool over the life of the query. Safe to call only after drain
// has returned, once no goroutine can still call tryDispatch.
func (fc *findContext) cellsDispatched() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.dispatched
}
