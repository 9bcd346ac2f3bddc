// File: internal/params/route.go
package params

// TagRoute is the wire tag for Route values.
const TagRoute = "Route"

// Route is an ordered, non-unique sequence of waypoints describing a walked
// path.
type Route []Waypoint

// Reverse returns a new Route with the waypoint order inverted, used to
// retrace a path. The waypoints themselves are unchanged.
func (r Route) Reverse() Route {
	out := make(Route, len(r))
	for i, w := range r {
		out[len(r)-1-i] = w
	}
	return out
}

func (r Route) TypeTag() string { return TagRoute }

func (r Route) Wire() TaggedValue {
	waypoints := make([]any, len(r))
	for i, w := range r {
		waypoints[i] = w.Wire().Map()
	}
	return TaggedValue{Type: TagRoute, Value: waypoints}
}

// ParseRoute accepts a list of waypoints, each in any shape ParseWaypoint
// recognizes or as a tagged envelope; tagging is decided per element, never
// all-or-nothing.
func ParseRoute(raw any) (Route, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, &ParseError{Tag: TagRoute, Reason: "value must be a list of waypoints"}
	}
	route := make(Route, 0, len(list))
	for _, elem := range list {
		p, err := DecodeAny(TagWaypoint, elem)
		if err != nil {
			return nil, err
		}
		route = append(route, p.(Waypoint))
	}
	return route, nil
}

// DecodeRoute decodes a tagged Route envelope.
func DecodeRoute(tv TaggedValue) (Route, error) {
	if tv.Type != TagRoute {
		return nil, &TagMismatchError{Want: TagRoute, Got: tv.Type}
	}
	return ParseRoute(tv.Value)
}

func init() {
	Register(Codec{
		Tag: TagRoute,
		Parse: func(raw any) (Param, error) {
			return ParseRoute(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeRoute(tv)
		},
	})
}
