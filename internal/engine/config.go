package engine

import (
	"fmt"
	"time"

	"github.com/shiva/pplme/internal/cellcoord"
)

// Config is the engine's explicit build-time configuration record.
type Config struct {
	// Resolution is cells per degree along each axis, 1..100.
	Resolution int
	// MaxAgeDifference is the non-negative tolerance, in years, around a
	// query's requested age.
	MaxAgeDifference int
	// ResultCap is the maximum number of people returned per query.
	ResultCap int
	// PerFindConcurrency bounds in-flight cells per query. Zero means
	// hardware parallelism.
	PerFindConcurrency int
	// TodayFn is the injected clock used to convert MaxAgeDifference into
	// a date window; isolates time for tests.
	TodayFn func() time.Time
}

// Validate reports the first configuration fault found: invalid
// resolution, a negative/zero cap, or a missing date provider.
// Configuration faults refuse construction rather than panicking: unlike
// a programmer fault, a bad config is an ordinary, recoverable mistake by
// whoever is standing the engine up (e.g. a malformed .env file read
// through viper).
func (c Config) Validate() error {
	if c.Resolution < 1 || c.Resolution > 100 {
		return fmt.Errorf("engine: resolution %d out of range [1, 100]", c.Resolution)
	}
	if c.MaxAgeDifference < 0 {
		return fmt.Errorf("engine: max age difference %d must be >= 0", c.MaxAgeDifference)
	}
	if c.ResultCap <= 0 {
		return fmt.Errorf("engine: result cap %d must be > 0", c.ResultCap)
	}
	if c.PerFindConcurrency < 0 {
		return fmt.Errorf("engine: per-find concurrency %d must be >= 0 (0 means hardware parallelism)", c.PerFindConcurrency)
	}
	if c.TodayFn == nil {
		return fmt.Errorf("engine: today_fn must not be nil")
	}
	return nil
}

func (c Config) resolution() cellcoord.Resolution { return cellcoord.Resolution(c.Resolution) }
