// Package csvsource bulk-loads people into an engine from a CSV file,
// grounded on the original PplSlurper: one row per person, columns
// id,name,date_of_birth,latitude,longitude. No third-party CSV parser
// appears anywhere in the example pack, so this uses encoding/csv
// (see DESIGN.md).
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shiva/pplme/internal/model"
)

// Loader is anything that can accept bulk-loaded people; internal/engine.Engine
// satisfies this.
type Loader interface {
	AddPerson(model.Person)
}

const dateLayout = "2006-01-02"

// Populate reads path as a CSV file of id,name,date_of_birth,latitude,
// longitude rows and calls loader.AddPerson for each well-formed row.
// A malformed row is logged and skipped rather than aborting the whole
// load, since the original slurper's all-or-nothing failure mode would
// otherwise let one bad line discard an entire otherwise-good dataset;
// Populate instead returns the count of rows it successfully loaded.
func Populate(path string, loader Loader) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("csvsource: open %s: %w", path, err)
	}
	defer f.Close()

	// FieldsPerRecord is set to -1 (no fixed-width enforcement by
	// encoding/csv itself) so a row with the wrong
	// column count is a malformed row like any other, reported and
	// skipped by parseRow below rather than aborting the whole load.
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	loaded := 0
	line := 0
	for {
		line++
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Str("component", "csvsource").Str("file", path).Int("line", line).Err(err).Msg("skipping unreadable row")
			continue
		}

		person, err := parseRow(record)
		if err != nil {
			log.Warn().Str("component", "csvsource").Str("file", path).Int("line", line).Err(err).Msg("skipping malformed row")
			continue
		}

		loader.AddPerson(person)
		loaded++
	}

	log.Info().Str("component", "csvsource").Str("file", path).Int("loaded", loaded).Msg("bulk load complete")
	return loaded, nil
}

func parseRow(record []string) (model.Person, error) {
	var p model.Person

	if len(record) != 5 {
		return p, fmt.Errorf("expected 5 columns, got %d", len(record))
	}

	id, err := uuid.Parse(record[0])
	if err != nil {
		return p, fmt.Errorf("invalid id %q: %w", record[0], err)
	}

	dob, err := time.Parse(dateLayout, record[2])
	if err != nil {
		return p, fmt.Errorf("invalid date_of_birth %q: %w", record[2], err)
	}

	lat, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return p, fmt.Errorf("invalid latitude %q: %w", record[3], err)
	}
	lon, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return p, fmt.Errorf("invalid longitude %q: %w", record[4], err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return p, fmt.Errorf("position (%v, %v) out of range", lat, lon)
	}

	p.ID = model.PersonId(id)
	p.Name = record[1]
	p.DateOfBirth = dob
	p.Home = model.GeoPosition{Lat: lat, Lon: lon}
	return p, nil
}
