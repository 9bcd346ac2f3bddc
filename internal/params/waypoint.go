// File: internal/params/waypoint.go
package params

import "fmt"

// TagWaypoint is the wire tag for Waypoint values.
const TagWaypoint = "Waypoint"

// DefaultTolerance is the arrival tolerance applied when a loose waypoint
// omits one.
const DefaultTolerance = 5

// Waypoint is an integer 3D position inside an opaque region chunk, plus the
// acceptable deviation from the exact position when verifying arrival.
type Waypoint struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Z         int `json:"z"`
	Chunk     int `json:"chunk"`
	Tolerance int `json:"tolerance"`
}

// NewWaypoint builds a Waypoint with the default tolerance.
func NewWaypoint(x, y, z, chunk int) Waypoint {
	return Waypoint{X: x, Y: y, Z: z, Chunk: chunk, Tolerance: DefaultTolerance}
}

func (w Waypoint) TypeTag() string { return TagWaypoint }

func (w Waypoint) Wire() TaggedValue {
	return TaggedValue{Type: TagWaypoint, Value: map[string]any{
		"x":         w.X,
		"y":         w.Y,
		"z":         w.Z,
		"chunk":     w.Chunk,
		"tolerance": w.Tolerance,
	}}
}

// Tile renders the waypoint as a ground-marker object the client overlay
// understands, painted with the given color.
func (w Waypoint) Tile(color Color) map[string]any {
	return map[string]any{
		"regionId": w.Chunk,
		"regionX":  w.X,
		"regionY":  w.Y,
		"z":        w.Z,
		"color":    color.Hex(),
	}
}

type waypointShape func(raw any) (Waypoint, bool, error)

// Shapes are disambiguated by whether the first element is itself a list:
// [[x,y,z], chunk, tolerance], [[x,y,z], chunk], and the flat [x,y,z,chunk].
var waypointShapes = []waypointShape{waypointNestedShape, waypointFlatShape, waypointObjectShape}

func waypointNestedShape(raw any) (Waypoint, bool, error) {
	list, ok := asList(raw)
	if !ok || len(list) == 0 {
		return Waypoint{}, false, nil
	}
	coords, ok := asList(list[0])
	if !ok {
		return Waypoint{}, false, nil
	}
	if len(coords) != 3 {
		return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: "coordinates must hold x, y and z"}
	}
	if len(list) < 2 {
		return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: "missing chunk value"}
	}
	var xyz [3]int
	for i, elem := range coords {
		n, ok := asInt(elem)
		if !ok {
			return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("coordinate %v is not an integer", elem)}
		}
		xyz[i] = n
	}
	chunk, ok := asInt(list[1])
	if !ok {
		return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("chunk %v is not an integer", list[1])}
	}
	tolerance := DefaultTolerance
	if len(list) > 2 {
		tolerance, ok = asInt(list[2])
		if !ok {
			return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("tolerance %v is not an integer", list[2])}
		}
	}
	return Waypoint{X: xyz[0], Y: xyz[1], Z: xyz[2], Chunk: chunk, Tolerance: tolerance}, true, nil
}

func waypointFlatShape(raw any) (Waypoint, bool, error) {
	list, ok := asList(raw)
	if !ok || len(list) != 4 {
		return Waypoint{}, false, nil
	}
	var vals [4]int
	for i, elem := range list {
		n, ok := asInt(elem)
		if !ok {
			return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("element %v is not an integer", elem)}
		}
		vals[i] = n
	}
	return NewWaypoint(vals[0], vals[1], vals[2], vals[3]), true, nil
}

func waypointObjectShape(raw any) (Waypoint, bool, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Waypoint{}, false, nil
	}
	w := Waypoint{Tolerance: DefaultTolerance}
	for _, field := range []struct {
		name     string
		dst      *int
		required bool
	}{
		{"x", &w.X, true},
		{"y", &w.Y, true},
		{"z", &w.Z, true},
		{"chunk", &w.Chunk, true},
		{"tolerance", &w.Tolerance, false},
	} {
		raw, present := obj[field.name]
		if !present {
			if field.required {
				return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("missing %q", field.name)}
			}
			continue
		}
		n, ok := asInt(raw)
		if !ok {
			return Waypoint{}, true, &ParseError{Tag: TagWaypoint, Reason: fmt.Sprintf("%s %v is not an integer", field.name, raw)}
		}
		*field.dst = n
	}
	return w, true, nil
}

// ParseWaypoint accepts the three documented loose list shapes and the wire
// object form.
func ParseWaypoint(raw any) (Waypoint, error) {
	for _, shape := range waypointShapes {
		w, matched, err := shape(raw)
		if matched {
			return w, err
		}
	}
	return Waypoint{}, &ParseError{Tag: TagWaypoint, Reason: "must provide x, y, z and chunk values"}
}

// DecodeWaypoint decodes a tagged Waypoint envelope.
func DecodeWaypoint(tv TaggedValue) (Waypoint, error) {
	if tv.Type != TagWaypoint {
		return Waypoint{}, &TagMismatchError{Want: TagWaypoint, Got: tv.Type}
	}
	return ParseWaypoint(tv.Value)
}

func init() {
	Register(Codec{
		Tag: TagWaypoint,
		Parse: func(raw any) (Param, error) {
			return ParseWaypoint(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeWaypoint(tv)
		},
	})
}
