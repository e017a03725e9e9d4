// Package servicedef describes what goes over the wire to and from the albums service: the
// form payloads we send and the album records we get back.
package servicedef

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	FieldUserID = "userId"
	FieldID     = "id"
	FieldTitle  = "title"
)

// AlbumFieldNames is the exact key set of a single album record.
var AlbumFieldNames = []string{FieldUserID, FieldID, FieldTitle}

// AlbumParams is the payload of a POST, PUT or PATCH request. Only the defined fields are sent,
// which is what distinguishes a partial update from a full one.
type AlbumParams struct {
	UserID ldvalue.OptionalInt
	Title  ldvalue.OptionalString
	ID     ldvalue.OptionalInt
}

// Form encodes the defined fields as form values.
func (p AlbumParams) Form() url.Values {
	values := make(url.Values)
	if p.UserID.IsDefined() {
		values.Set(FieldUserID, strconv.Itoa(p.UserID.IntValue()))
	}
	if p.Title.IsDefined() {
		values.Set(FieldTitle, p.Title.StringValue())
	}
	if p.ID.IsDefined() {
		values.Set(FieldID, strconv.Itoa(p.ID.IntValue()))
	}
	return values
}

func (p AlbumParams) String() string {
	return p.Form().Encode()
}

// Album is one album record as returned by the service. A field that was absent from the
// response (or null) is left undefined, so a check can tell "missing" apart from "wrong".
//
// UserID holds the string form of whatever the service returned, because services that
// receive form-encoded input commonly echo numbers back as strings.
type Album struct {
	ID     ldvalue.OptionalInt
	UserID ldvalue.OptionalString
	Title  ldvalue.OptionalString
	Keys   []string
	raw    ldvalue.Value
}

func (a Album) String() string {
	return a.raw.JSONString()
}

// HasExactKeys reports whether the record's key set is exactly the given set, in any order.
func (a Album) HasExactKeys(expected []string) bool {
	return strings.Join(sortedCopy(a.Keys), ",") == strings.Join(sortedCopy(expected), ",")
}

// SortedKeys returns the record's keys in alphabetical order.
func (a Album) SortedKeys() []string {
	return sortedCopy(a.Keys)
}

// ParseAlbum decodes a single album record.
func ParseAlbum(data []byte) (Album, error) {
	var v ldvalue.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Album{}, fmt.Errorf("response is not valid JSON: %w", err)
	}
	return AlbumFromValue(v)
}

// ParseAlbumList decodes a list of album records.
func ParseAlbumList(data []byte) ([]Album, error) {
	var v ldvalue.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if v.Type() != ldvalue.ArrayType {
		return nil, fmt.Errorf("expected a JSON array but got %s", v.Type())
	}
	ret := make([]Album, 0, v.Count())
	for i := 0; i < v.Count(); i++ {
		a, err := AlbumFromValue(v.GetByIndex(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		ret = append(ret, a)
	}
	return ret, nil
}

// AlbumFromValue converts an already-parsed JSON object into an Album.
func AlbumFromValue(v ldvalue.Value) (Album, error) {
	if v.Type() != ldvalue.ObjectType {
		return Album{}, fmt.Errorf("expected a JSON object but got %s", v.Type())
	}
	a := Album{Keys: v.Keys(), raw: v}

	if idValue := v.GetByKey(FieldID); !idValue.IsNull() {
		id, err := intFromValue(idValue)
		if err != nil {
			return Album{}, fmt.Errorf("%q: %w", FieldID, err)
		}
		a.ID = ldvalue.NewOptionalInt(id)
	}
	if userValue := v.GetByKey(FieldUserID); !userValue.IsNull() {
		a.UserID = ldvalue.NewOptionalString(StringForm(userValue))
	}
	if titleValue := v.GetByKey(FieldTitle); !titleValue.IsNull() {
		if !titleValue.IsString() {
			return Album{}, fmt.Errorf("%q: expected a string but got %s", FieldTitle, titleValue.JSONString())
		}
		a.Title = ldvalue.NewOptionalString(titleValue.StringValue())
	}
	return a, nil
}

// StringForm renders a scalar JSON value the way it would appear in a form field: strings as
// themselves, numbers without quotes. 1, 1.0 and "1" all become "1".
func StringForm(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.StringType:
		return v.StringValue()
	case ldvalue.NumberType:
		if v.IsInt() {
			return strconv.Itoa(v.IntValue())
		}
		return strconv.FormatFloat(v.Float64Value(), 'f', -1, 64)
	default:
		return v.JSONString()
	}
}

func intFromValue(v ldvalue.Value) (int, error) {
	switch {
	case v.IsInt():
		return v.IntValue(), nil
	case v.IsString():
		n, err := strconv.Atoi(v.StringValue())
		if err != nil {
			return 0, fmt.Errorf("expected an integer but got %s", v.JSONString())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected an integer but got %s", v.JSONString())
	}
}

func sortedCopy(ss []string) []string {
	ret := append([]string(nil), ss...)
	sort.Strings(ret)
	return ret
}
