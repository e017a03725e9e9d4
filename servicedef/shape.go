package servicedef

import "github.com/tidwall/gjson"

// BodyShape is the coarse JSON type of a response body.
type BodyShape string

const (
	ShapeSequence BodyShape = "sequence"
	ShapeMapping  BodyShape = "mapping"
	ShapeScalar   BodyShape = "scalar"
	ShapeEmpty    BodyShape = "empty"
	ShapeInvalid  BodyShape = "invalid JSON"
)

// ShapeOf classifies a response body without fully decoding it.
func ShapeOf(body []byte) BodyShape {
	if len(body) == 0 {
		return ShapeEmpty
	}
	if !gjson.ValidBytes(body) {
		return ShapeInvalid
	}
	result := gjson.ParseBytes(body)
	switch {
	case result.IsArray():
		return ShapeSequence
	case result.IsObject():
		return ShapeMapping
	default:
		return ShapeScalar
	}
}

// SequenceLength returns the number of elements of a sequence body, or -1 if the body is not a
// sequence.
func SequenceLength(body []byte) int {
	if ShapeOf(body) != ShapeSequence {
		return -1
	}
	return int(gjson.GetBytes(body, "#").Int())
}
