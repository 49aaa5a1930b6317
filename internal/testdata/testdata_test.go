package testdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedToday() time.Time {
	return time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC)
}

func TestGenerateN_DeterministicForSameSeed(t *testing.T) {
	a := NewGenerator(42, fixedToday()).GenerateN(20)
	b := NewGenerator(42, fixedToday()).GenerateN(20)
	assert.Equal(t, a, b)
}

func TestGenerateN_DifferentSeedsDiffer(t *testing.T) {
	a := NewGenerator(1, fixedToday()).GenerateN(20)
	b := NewGenerator(2, fixedToday()).GenerateN(20)
	assert.NotEqual(t, a, b)
}

func TestGenerateN_PositionsAndAgesInRange(t *testing.T) {
	today := fixedToday()
	people := NewGenerator(7, today).GenerateN(200)
	for _, p := range people {
		assert.True(t, p.Home.Lat >= -90 && p.Home.Lat <= 90)
		assert.True(t, p.Home.Lon >= -180 && p.Home.Lon <= 180)
		age := p.AgeAt(today)
		assert.True(t, age >= 17 && age <= 100, "age %d out of expected range", age)
	}
}
