// Package model contains the domain types shared by the matching engine
// and its surrounding collaborators (wire codec, CSV/Postgres sources,
// transport).
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PersonId is a 128-bit opaque identifier. Equality is by bit-pattern; the
// all-zero value is "nil" and never denotes a valid person.
type PersonId uuid.UUID

// NilPersonId is the all-zero identifier.
var NilPersonId PersonId

// IsNil reports whether id is the all-zero identifier.
func (id PersonId) IsNil() bool {
	return id == NilPersonId
}

func (id PersonId) String() string {
	return uuid.UUID(id).String()
}

// NewPersonId generates a fresh random identifier.
func NewPersonId() PersonId {
	return PersonId(uuid.New())
}

// GeoPosition is a WGS-84 latitude/longitude pair.
type GeoPosition struct {
	Lat float64
	Lon float64
}

// Validate fails fast (panics) on an out-of-range position: this is a
// programmer fault, not a recoverable error. Callers are expected to
// validate user input before it reaches the core.
func (p GeoPosition) Validate() {
	if p.Lat < -90 || p.Lat > 90 {
		panic(fmt.Sprintf("model: latitude %v out of range [-90, 90]", p.Lat))
	}
	if p.Lon < -180 || p.Lon > 180 {
		panic(fmt.Sprintf("model: longitude %v out of range [-180, 180]", p.Lon))
	}
}

// Person is a single indexed record: an identity, a name, a date of birth,
// and a home position. The Grid Store owns Person values for the lifetime
// of the index; callers receive copies.
type Person struct {
	ID          PersonId
	Name        string
	DateOfBirth time.Time
	Home        GeoPosition
}

// AgeAt returns the person's age in whole years as of today, using the
// conventional "has the birthday happened yet this year" rule.
func (p Person) AgeAt(today time.Time) int {
	years := today.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(today) {
		years--
	}
	return years
}
