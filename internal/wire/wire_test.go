package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/shiva/pplme/internal/model"
)

func TestGeoPosition_RoundTrip(t *testing.T) {
	pos := model.GeoPosition{Lat: 24.86, Lon: -67.01}
	got, err := UnmarshalGeoPosition(MarshalGeoPosition(pos))
	require.NoError(t, err)
	assert.Equal(t, pos, got)
}

func TestGeoPosition_MissingFieldFails(t *testing.T) {
	var b []byte
	// Only latitude (1 tag byte + 8 fixed64 bytes), no longitude.
	b = append(b, MarshalGeoPosition(model.GeoPosition{Lat: 1})[:9]...)
	_, err := UnmarshalGeoPosition(b)
	assert.Error(t, err)
}

func TestPerson_RoundTrip(t *testing.T) {
	p := model.Person{
		ID:          model.NewPersonId(),
		Name:        "Ayesha Khan",
		DateOfBirth: time.Date(1990, time.March, 17, 0, 0, 0, 0, time.UTC),
		Home:        model.GeoPosition{Lat: -10, Lon: 30},
	}
	got, err := UnmarshalPerson(MarshalPerson(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPerson_MissingRequiredFieldFails(t *testing.T) {
	// A name-only Person is missing id/date_of_birth/location_of_home.
	b := protowire.AppendTag(nil, fieldPersonName, protowire.BytesType)
	b = protowire.AppendString(b, "incomplete")
	_, err := UnmarshalPerson(b)
	assert.Error(t, err)
}

func TestFindRequest_RoundTrip(t *testing.T) {
	r := FindRequest{Origin: model.GeoPosition{Lat: 12.5, Lon: -45.25}, Age: 30}
	got, err := UnmarshalFindRequest(MarshalFindRequest(r))
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestFindResponse_RoundTrip(t *testing.T) {
	r := FindResponse{Ppl: []model.Person{
		{ID: model.NewPersonId(), Name: "A", DateOfBirth: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Home: model.GeoPosition{}},
		{ID: model.NewPersonId(), Name: "B", DateOfBirth: time.Date(1995, 6, 6, 0, 0, 0, 0, time.UTC), Home: model.GeoPosition{Lat: 5, Lon: 5}},
	}}
	got, err := UnmarshalFindResponse(MarshalFindResponse(r))
	require.NoError(t, err)
	require.Len(t, got.Ppl, 2)
	assert.Equal(t, r.Ppl, got.Ppl)
}

func TestFindResponse_EmptyRoundTrip(t *testing.T) {
	got, err := UnmarshalFindResponse(MarshalFindResponse(FindResponse{}))
	require.NoError(t, err)
	assert.Empty(t, got.Ppl)
}
