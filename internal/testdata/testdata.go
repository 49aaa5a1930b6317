// Package testdata generates synthetic people for load and property
// tests, grounded on pplmed::Server::PopulateTestDb (the original
// daemon's --test_database_size fallback when no CSV is given). Unlike
// the original, generation is driven by a seeded math/rand source so
// that callers can reproduce a dataset exactly; this package never
// uses crypto/rand.
package testdata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/shiva/pplme/internal/model"
)

// Generator produces deterministic synthetic people from a seed.
type Generator struct {
	rng   *rand.Rand
	today time.Time
}

// NewGenerator builds a Generator seeded with seed, generating ages
// relative to today (so that repeated runs on different days still
// produce the same birth dates).
func NewGenerator(seed int64, today time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), today: today}
}

// Next produces the i-th synthetic person: a uniformly random home
// position in [-90,90]x[-180,180], and a birth date uniformly
// distributed between 18*365 and 100*365 days before today, matching
// the original's random_age{-100*365, -18*365} day-offset distribution.
// Because those are 365-day years, whole-year ages run from 17 to 99.
func (g *Generator) Next(i int) model.Person {
	ageDays := 18*365 + g.rng.Intn((100-18)*365)
	dob := g.today.AddDate(0, 0, -ageDays)

	lat := g.rng.Float64()*180 - 90
	lon := g.rng.Float64()*360 - 180

	return model.Person{
		ID:          model.PersonId(uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("pplme-testdata-%d-%d", g.rng.Int63(), i)))),
		Name:        fmt.Sprintf("Test Person %d", i),
		DateOfBirth: dob,
		Home:        model.GeoPosition{Lat: lat, Lon: lon},
	}
}

// GenerateN produces n synthetic people.
func (g *Generator) GenerateN(n int) []model.Person {
	people := make([]model.Person, n)
	for i := 0; i < n; i++ {
		people[i] = g.Next(i)
	}
	return people
}
