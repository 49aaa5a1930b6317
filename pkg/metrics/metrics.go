// Package metrics exposes Prometheus collectors for the admin HTTP
// surface (internal/httpapi), tracking per-query latency and how much
// of the grid a query actually touched.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FindMatchingDuration observes wall-clock time spent in a single
	// FindMatching call.
	FindMatchingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pplme",
		Subsystem: "engine",
		Name:      "find_matching_duration_seconds",
		Help:      "Time spent servicing a single FindMatching query.",
		Buckets:   prometheus.DefBuckets,
	})

	// CellsScanned counts how many grid cells were dispatched to
	// workers per query.
	CellsScanned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pplme",
		Subsystem: "engine",
		Name:      "cells_scanned",
		Help:      "Number of grid cells scanned to satisfy a single FindMatching query.",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024},
	})

	// TerminalCellsHit counts how often a spiral walk reached one of
	// the four polar/antimeridian terminal corners before the result
	// cap was satisfied.
	TerminalCellsHit = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pplme",
		Subsystem: "engine",
		Name:      "terminal_cells_total",
		Help:      "Total number of terminal-cell classifications encountered across all queries.",
	})

	// RequestsTotal counts TCP matching requests handled, labeled by
	// outcome ("ok", "malformed").
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pplme",
		Subsystem: "netserver",
		Name:      "requests_total",
		Help:      "Total number of matching requests handled, by outcome.",
	}, []string{"outcome"})

	// MatchCacheLookups counts FindMatching result cache lookups,
	// labeled by "hit" or "miss".
	MatchCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pplme",
		Subsystem: "cache",
		Name:      "match_lookups_total",
		Help:      "Total number of FindMatching result cache lookups, by hit/miss.",
	}, []string{"result"})
)
