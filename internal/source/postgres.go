// Package source holds alternate bulk-load sources for the matching
// engine. postgres.go reads an existing relational "people" table
// through pgx and feeds it into the engine exactly once at startup;
// it never persists the grid back to PostgreSQL — the grid remains
// an in-memory structure for the lifetime of the process.
package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/shiva/pplme/internal/model"
)

// Loader is anything that can accept bulk-loaded people; internal/engine.Engine
// satisfies this.
type Loader interface {
	AddPerson(model.Person)
}

// PopulateFromPostgres streams every row of the people table
// (id uuid, name text, date_of_birth date, latitude double precision,
// longitude double precision) into loader, returning the number of
// rows loaded.
func PopulateFromPostgres(ctx context.Context, pool *pgxpool.Pool, loader Loader) (int, error) {
	rows, err := pool.Query(ctx,
		`SELECT id, name, date_of_birth, latitude, longitude FROM people`)
	if err != nil {
		return 0, fmt.Errorf("source: query people: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var p model.Person
		var id [16]byte
		var lat, lon float64
		if err := rows.Scan(&id, &p.Name, &p.DateOfBirth, &lat, &lon); err != nil {
			return loaded, fmt.Errorf("source: scan person row %d: %w", loaded, err)
		}
		p.ID = model.PersonId(id)
		p.Home = model.GeoPosition{Lat: lat, Lon: lon}
		loader.AddPerson(p)
		loaded++
	}
	if err := rows.Err(); err != nil {
		return loaded, fmt.Errorf("source: iterate people rows: %w", err)
	}

	log.Info().Str("component", "source").Int("loaded", loaded).Msg("bulk load from postgres complete")
	return loaded, nil
}
