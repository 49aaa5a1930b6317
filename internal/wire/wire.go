// Package wire hand-encodes the protobuf-compatible request/response
// envelope pplme exchanges over the TCP transport (internal/netserver).
// There is no .proto/protoc step here: the wire shapes are grounded
// directly on the original libpplmeproto convert_*.{h,cc} sources and
// reproduced with google.golang.org/protobuf/encoding/protowire, which
// gives us wire-compatible varint/fixed64/length-delimited encoding
// without a code generation pass.
package wire

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/shiva/pplme/internal/model"
)

func doubleBits(v float64) uint64 { return math.Float64bits(v) }
func bitsDouble(v uint64) float64 { return math.Float64frombits(v) }

// Field numbers below mirror the original pplMe proto schema:
// GeoPosition{latitude=1, longitude=2}, Uuid{octets=1}, Date{ymd=1},
// Person{id=1, name=2, date_of_birth=3, location_of_home=4},
// FindRequest{location_of_user=1, age_of_user=2}, FindResponse{ppl=1}.
const (
	fieldGeoPositionLatitude  = 1
	fieldGeoPositionLongitude = 2

	fieldUUIDOctets = 1

	fieldDateYMD = 1

	fieldPersonID          = 1
	fieldPersonName        = 2
	fieldPersonDateOfBirth = 3
	fieldPersonHome        = 4

	fieldRequestOrigin = 1
	fieldRequestAge    = 2

	fieldResponsePpl = 1
)

// MarshalGeoPosition encodes a GeoPosition as the wire form of the
// original GeoPosition proto: two required doubles.
func MarshalGeoPosition(pos model.GeoPosition) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldGeoPositionLatitude, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, doubleBits(pos.Lat))
	b = protowire.AppendTag(b, fieldGeoPositionLongitude, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, doubleBits(pos.Lon))
	return b
}

// UnmarshalGeoPosition decodes a GeoPosition, failing if either
// coordinate is absent, matching the original convert_geo_position
// contract that both fields are required.
func UnmarshalGeoPosition(b []byte) (model.GeoPosition, error) {
	var pos model.GeoPosition
	var haveLat, haveLon bool
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return pos, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case fieldGeoPositionLatitude:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return pos, protowire.ParseError(n)
			}
			pos.Lat = bitsDouble(v)
			haveLat = true
			b = b[n:]
		case fieldGeoPositionLongitude:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return pos, protowire.ParseError(n)
			}
			pos.Lon = bitsDouble(v)
			haveLon = true
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return pos, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if !haveLat || !haveLon {
		return pos, fmt.Errorf("wire: geo_position missing required field(s)")
	}
	return pos, nil
}

// marshalUUID encodes a 16-byte identifier as a single required bytes
// field, per convert_uuid's single-octets-field Uuid proto.
func marshalUUID(id model.PersonId) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldUUIDOctets, protowire.BytesType)
	b = protowire.AppendBytes(b, id[:])
	return b
}

func unmarshalUUID(b []byte) (model.PersonId, error) {
	var id model.PersonId
	var have bool
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return id, protowire.ParseError(n)
		}
		b = b[n:]
		if num == fieldUUIDOctets && typ == protowire.BytesType {
			octets, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return id, protowire.ParseError(n)
			}
			if len(octets) != len(id) {
				return id, fmt.Errorf("wire: uuid octets length %d, want %d", len(octets), len(id))
			}
			copy(id[:], octets)
			have = true
			b = b[n:]
		} else {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return id, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if !have {
		return id, fmt.Errorf("wire: uuid missing required octets field")
	}
	return id, nil
}

// marshalDate packs year/month/day into the single big-endian-style
// ymd uint32 the original Date proto uses: (year<<16)|(month<<8)|day.
func marshalDate(t time.Time) []byte {
	ymd := uint32(t.Year())<<16 | uint32(t.Month())<<8 | uint32(t.Day())
	var b []byte
	b = protowire.AppendTag(b, fieldDateYMD, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ymd))
	return b
}

func unmarshalDate(b []byte) (time.Time, error) {
	var have bool
	var ymd uint32
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return time.Time{}, protowire.ParseError(n)
		}
		b = b[n:]
		if num == fieldDateYMD && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			ymd = uint32(v)
			have = true
			b = b[n:]
		} else {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if !have {
		return time.Time{}, fmt.Errorf("wire: date missing required ymd field")
	}
	year := int(ymd >> 16)
	month := time.Month((ymd >> 8) & 0xff)
	day := int(ymd & 0xff)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// MarshalPerson encodes a Person the way convert_person does: id,
// name, date_of_birth, and location_of_home are all required
// submessages/fields.
func MarshalPerson(p model.Person) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldPersonID, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalUUID(p.ID))
	b = protowire.AppendTag(b, fieldPersonName, protowire.BytesType)
	b = protowire.AppendString(b, p.Name)
	b = protowire.AppendTag(b, fieldPersonDateOfBirth, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalDate(p.DateOfBirth))
	b = protowire.AppendTag(b, fieldPersonHome, protowire.BytesType)
	b = protowire.AppendBytes(b, MarshalGeoPosition(p.Home))
	return b
}

// UnmarshalPerson decodes a Person, failing (as convert_person.cc does)
// if any required field is absent.
func UnmarshalPerson(b []byte) (model.Person, error) {
	var p model.Person
	var haveID, haveDOB, haveHome bool
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case fieldPersonID:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			id, err := unmarshalUUID(raw)
			if err != nil {
				return p, err
			}
			p.ID = id
			haveID = true
			b = b[n:]
		case fieldPersonName:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			p.Name = s
			b = b[n:]
		case fieldPersonDateOfBirth:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			dob, err := unmarshalDate(raw)
			if err != nil {
				return p, err
			}
			p.DateOfBirth = dob
			haveDOB = true
			b = b[n:]
		case fieldPersonHome:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			home, err := UnmarshalGeoPosition(raw)
			if err != nil {
				return p, err
			}
			p.Home = home
			haveHome = true
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if !haveID || !haveDOB || !haveHome {
		return p, fmt.Errorf("wire: person missing required field(s)")
	}
	return p, nil
}

// FindRequest is the wire form of a FindMatching call: a requester's
// position and age, equivalent to the original PplmeRequest message.
type FindRequest struct {
	Origin model.GeoPosition
	Age    int32
}

func MarshalFindRequest(r FindRequest) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldRequestOrigin, protowire.BytesType)
	b = protowire.AppendBytes(b, MarshalGeoPosition(r.Origin))
	b = protowire.AppendTag(b, fieldRequestAge, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(r.Age)))
	return b
}

func UnmarshalFindRequest(b []byte) (FindRequest, error) {
	var r FindRequest
	var haveOrigin bool
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case fieldRequestOrigin:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
			origin, err := UnmarshalGeoPosition(raw)
			if err != nil {
				return r, err
			}
			r.Origin = origin
			haveOrigin = true
			b = b[n:]
		case fieldRequestAge:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
			r.Age = int32(uint32(v))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if !haveOrigin {
		return r, fmt.Errorf("wire: find_request missing required location_of_user field")
	}
	return r, nil
}

// FindResponse is the wire form of a FindMatching result: the matched
// people, equivalent to the original PplmeResponse message.
type FindResponse struct {
	Ppl []model.Person
}

func MarshalFindResponse(r FindResponse) []byte {
	var b []byte
	for _, p := range r.Ppl {
		b = protowire.AppendTag(b, fieldResponsePpl, protowire.BytesType)
		b = protowire.AppendBytes(b, MarshalPerson(p))
	}
	return b
}

func UnmarshalFindResponse(b []byte) (FindResponse, error) {
	var r FindResponse
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, protowire.ParseError(n)
		}
		b = b[n:]
		if num == fieldResponsePpl && typ == protowire.BytesType {
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
			p, err := UnmarshalPerson(raw)
			if err != nil {
				return r, err
			}
			r.Ppl = append(r.Ppl, p)
			b = b[n:]
		} else {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return r, nil
}
