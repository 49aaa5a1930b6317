package engine

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/pplme/internal/model"
)

func fixedToday(y int, m time.Month, d int) func() time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func dob(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustBuild(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func baseConfig() Config {
	return Config{
		Resolution:         1,
		MaxAgeDifference:   1,
		ResultCap:          1,
		PerFindConcurrency: 3,
		TodayFn:            fixedToday(2014, 11, 8),
	}
}

// Scenario 1: person at (0,0), query at (0,0) age 30 -> 1 match.
func TestScenario1_SameCellMatch(t *testing.T) {
	e := mustBuild(t, baseConfig())
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: 0, Lon: 0}})

	got := e.FindMatching(model.GeoPosition{Lat: 0, Lon: 0}, 30)
	assert.Len(t, got, 1)
}

// Scenario 2: person at (-1,0), query origin (0,0) age 30 -> 1 match.
func TestScenario2_AdjacentCellMatch(t *testing.T) {
	e := mustBuild(t, baseConfig())
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: -1, Lon: 0}})

	got := e.FindMatching(model.GeoPosition{Lat: 0, Lon: 0}, 30)
	assert.Len(t, got, 1)
}

// Scenario 3 & 4: age outside tolerance -> 0 matches.
func TestScenario3And4_AgeOutOfTolerance(t *testing.T) {
	e := mustBuild(t, baseConfig())
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: 0, Lon: 0}})

	assert.Empty(t, e.FindMatching(model.GeoPosition{Lat: 0, Lon: 0}, 28))
	assert.Empty(t, e.FindMatching(model.GeoPosition{Lat: 0, Lon: 0}, 32))
}

// Scenario 5: antimeridian wrap.
func TestScenario5_AntimeridianWrap(t *testing.T) {
	e := mustBuild(t, baseConfig())
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: 0, Lon: 179.99}})

	got := e.FindMatching(model.GeoPosition{Lat: 0, Lon: -179.99}, 30)
	assert.Len(t, got, 1)
}

// Scenario 6: fine-grained position, zero tolerance; at R=1 the person's
// home (lon cell 247) and the origin (lon cell 246) are adjacent cells.
func TestScenario6_AdjacentCellZeroTolerance(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxAgeDifference = 0
	e := mustBuild(t, cfg)
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: 24.86, Lon: 67.01}})

	got := e.FindMatching(model.GeoPosition{Lat: 24.8746, Lon: 66.9691}, 30)
	assert.Len(t, got, 1)
}

// Scenario 7: four grid corners, result cap 4, all returned.
func TestScenario7_PolarCorners(t *testing.T) {
	cfg := Config{
		Resolution:         1,
		MaxAgeDifference:   0,
		ResultCap:          4,
		PerFindConcurrency: 3,
		TodayFn:            fixedToday(2014, 11, 8),
	}
	e := mustBuild(t, cfg)
	d := dob(1984, 11, 8)
	corners := []model.GeoPosition{
		{Lat: 90, Lon: 180},
		{Lat: -90, Lon: 180},
		{Lat: -90, Lon: -180},
		{Lat: 90, Lon: -180},
	}
	for _, c := range corners {
		e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: d, Home: c})
	}

	got := e.FindMatching(model.GeoPosition{Lat: 0, Lon: 0}, 30)
	assert.Len(t, got, 4)
}

func TestAddThenQueryExactHomeAndAge_AlwaysMatches(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxAgeDifference = 0
	cfg.ResultCap = 10
	e := mustBuild(t, cfg)

	home := model.GeoPosition{Lat: 12.5, Lon: -45.25}
	birth := dob(1990, 3, 17)
	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: birth, Home: home})

	today := cfg.TodayFn()
	age := today.Year() - birth.Year()
	if birth.AddDate(age, 0, 0).After(today) {
		age--
	}

	got := e.FindMatching(home, age)
	require.NotEmpty(t, got)
}

func TestResultCap_Honored(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxAgeDifference = 50
	cfg.ResultCap = 5
	cfg.PerFindConcurrency = 4
	e := mustBuild(t, cfg)

	home := model.GeoPosition{Lat: 1, Lon: 1}
	for i := 0; i < 50; i++ {
		e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1980+i%20, 1, 1), Home: home})
	}

	got := e.FindMatching(model.GeoPosition{Lat: 1, Lon: 1}, 30)
	assert.Len(t, got, 5)
}

func TestIdempotentQuery_SetEqualAcrossRepeats(t *testing.T) {
	cfg := baseConfig()
	cfg.ResultCap = 20
	cfg.MaxAgeDifference = 50
	e := mustBuild(t, cfg)

	home := model.GeoPosition{Lat: -10, Lon: 30}
	for i := 0; i < 10; i++ {
		e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1985+i, 1, 1), Home: home})
	}

	first := e.FindMatching(model.GeoPosition{Lat: -10, Lon: 30}, 30)
	second := e.FindMatching(model.GeoPosition{Lat: -10, Lon: 30}, 30)

	assert.ElementsMatch(t, idSet(first), idSet(second))
}

func idSet(people []model.Person) []model.PersonId {
	ids := make([]model.PersonId, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func TestPoleHandling_IndexableAndRetrievable(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxAgeDifference = 0
	e := mustBuild(t, cfg)

	e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1984, 11, 8), Home: model.GeoPosition{Lat: 90, Lon: -37}})

	got := e.FindMatching(model.GeoPosition{Lat: 90, Lon: 142}, 30)
	assert.Len(t, got, 1)
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Resolution: 0, MaxAgeDifference: 1, ResultCap: 1, TodayFn: fixedToday(2020, 1, 1)},
		{Resolution: 101, MaxAgeDifference: 1, ResultCap: 1, TodayFn: fixedToday(2020, 1, 1)},
		{Resolution: 1, MaxAgeDifference: -1, ResultCap: 1, TodayFn: fixedToday(2020, 1, 1)},
		{Resolution: 1, MaxAgeDifference: 1, ResultCap: 0, TodayFn: fixedToday(2020, 1, 1)},
		{Resolution: 1, MaxAgeDifference: 1, ResultCap: 1, TodayFn: nil},
	}
	for _, c := range cases {
		_, err := Build(c)
		assert.Error(t, err, "%+v", c)
	}
}

func TestAddPerson_PanicsOnOutOfRangePosition(t *testing.T) {
	e := mustBuild(t, baseConfig())
	assert.Panics(t, func() {
		e.AddPerson(model.Person{ID: model.NewPersonId(), DateOfBirth: dob(1990, 1, 1), Home: model.GeoPosition{Lat: 200, Lon: 0}})
	})
}

func TestFindMatching_PanicsOnOutOfRangeOrigin(t *testing.T) {
	e := mustBuild(t, baseConfig())
	assert.Panics(t, func() {
		e.FindMatching(model.GeoPosition{Lat: 0, Lon: 200}, 30)
	})
}
